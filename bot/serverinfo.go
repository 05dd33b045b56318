package bot

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/session"
	"fmt"
	"os"
	"strings"

	"github.com/shirou/gopsutil/process"
)

// ServerInfoHandler reports server statistics read from the session
// registry, plus the relay's own resident memory.
type ServerInfoHandler struct {
	registry contract.Registry
}

func NewServerInfoHandler(registry contract.Registry) ServerInfoHandler {
	return ServerInfoHandler{registry: registry}
}

func (ServerInfoHandler) Name() string { return "server-info" }

func (h ServerInfoHandler) Execute(_ []string, _ domain.Caller) (string, error) {
	var sb strings.Builder
	sb.WriteString("Server Information:\n")
	sb.WriteString("-------------------\n")
	fmt.Fprintf(&sb, "Connected Clients: %d\n", h.registry.Count())
	fmt.Fprintf(&sb, "Server Uptime:     %s\n", session.FormatUptime(h.registry.Uptime()))
	fmt.Fprintf(&sb, "Admin User:        %s", h.registry.AdminDisplayName())

	if rss, ok := selfMemory(); ok {
		fmt.Fprintf(&sb, "\nMemory Usage:      %.1f MB", float64(rss)/(1024*1024))
	}
	return sb.String(), nil
}

// selfMemory reads the relay process RSS. Stats are best effort: a
// collection failure only drops the memory line from the report.
func selfMemory() (uint64, bool) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, false
	}
	mem, err := p.MemoryInfo()
	if err != nil || mem == nil {
		return 0, false
	}
	return mem.RSS, true
}
