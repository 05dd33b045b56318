// Command client is a terminal chat client for the relay.
//
// The relay broadcasts every message to every connection; this client
// holds up the receiver side of that contract by suppressing messages
// targeted at other connections.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chat-relay/domain"
	"chat-relay/transport/ws"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/olekukonko/tablewriter"
)

// frame is the union of everything the relay can send: the one-time
// WELCOME, the USER_LIST presence payload, and outbound messages
// (which carry no "type" field).
type frame struct {
	Type         string             `json:"type"`
	ConnectionID string             `json:"connectionId"`
	Users        []string           `json:"users"`
	Admin        string             `json:"admin"`
	Content      string             `json:"content"`
	Sender       string             `json:"sender"`
	Kind         domain.MessageKind `json:"kind"`
	Target       string             `json:"target"`
	Lang         string             `json:"lang"`
}

func main() {
	serverURL := flag.String("url", "ws://localhost:8080/ws", "relay websocket URL")
	username := flag.String("user", "", "display name to join with")
	flag.Parse()

	if *username == "" {
		log.Fatal("missing -user flag")
	}

	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", *serverURL, err)
	}
	defer conn.Close()

	join := ws.InboundFrame{Type: ws.FrameJoin, Sender: *username}
	if err := conn.WriteJSON(join); err != nil {
		log.Fatalf("Failed to join: %v", err)
	}

	done := make(chan struct{})
	go readLoop(conn, done)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	input := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			input <- scanner.Text()
		}
		close(input)
	}()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case line, ok := <-input:
			if !ok {
				return
			}
			if line == "" {
				continue
			}
			chat := ws.InboundFrame{Type: ws.FrameChat, Sender: *username, Content: line}
			if err := conn.WriteJSON(chat); err != nil {
				color.Red.Printf("Send failed: %v\n", err)
				return
			}
		}
	}
}

func readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	var ownConnectionID string
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			color.Red.Println("Connection closed.")
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}

		switch f.Type {
		case "WELCOME":
			ownConnectionID = f.ConnectionID
			color.Gray.Printf("Connected as %s\n", ownConnectionID)
		case domain.PresenceType:
			renderUserList(f.Users, f.Admin)
		default:
			renderMessage(f, ownConnectionID)
		}
	}
}

func renderMessage(f frame, ownConnectionID string) {
	msg := domain.OutboundMessage{Target: f.Target}
	if !ws.ShouldRender(msg, ownConnectionID) {
		return // addressed to another connection
	}

	private := ""
	if f.Target != "" {
		private = " (private)"
	}

	switch f.Kind {
	case domain.KindBotReply:
		color.Green.Printf("[%s]%s\n%s\n", f.Sender, private, f.Content)
	case domain.KindSystem:
		color.Yellow.Printf("%s\n", f.Content)
	case domain.KindJoinRejected:
		color.Red.Printf("Join rejected: %s\n", f.Content)
	default:
		lang := ""
		if f.Lang != "" {
			lang = fmt.Sprintf(" [%s]", f.Lang)
		}
		fmt.Printf("%s%s%s: %s\n", f.Sender, private, lang, f.Content)
	}
}

func renderUserList(users []string, admin string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Online Users"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, u := range users {
		if u == admin {
			u += " (admin)"
		}
		table.Append([]string{u})
	}
	table.Render()
}
