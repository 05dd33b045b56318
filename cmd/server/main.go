package main

import (
	"chat-relay/bot"
	"chat-relay/ingress"
	"chat-relay/router"
	"chat-relay/session"
	"chat-relay/transport/ws"
	"chat-relay/workers"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so deferred cleanups always execute
// before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Transport & Core
	hub := ws.NewHub(log, config.BroadcastBufferSize)
	registry := session.NewRegistry(hub, log)

	commandRegistry, err := bot.NewRegistry(log,
		bot.HelpHandler{},
		bot.InfoHandler{},
		bot.MathHandler{},
		bot.NewServerInfoHandler(registry),
	)
	if err != nil {
		return fmt.Errorf("command registry error: %w", err)
	}
	botService := bot.NewService(commandRegistry, log)
	messageRouter := router.NewRouter(hub, registry, log)
	controller := ingress.NewController(registry, messageRouter, botService, hub, log)
	hub.Bind(controller)

	// 3. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(hub)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sup.Run(ctx)

	// 5. HTTP Server
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.ServeWS(hub, log))

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	srv := &http.Server{Addr: address, Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting chat relay", "address", address, "at", time.Now().UTC())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
