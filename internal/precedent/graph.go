// Package precedent retrieves prior-session context: the hierarchical
// handoff/ledger for one session via the context-graph subprocess, and
// similar past handoffs from its SQLite database.
package precedent

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// graphTimeout bounds the context-graph subprocess; the main HTTP calls are
// not subject to it.
const graphTimeout = 10 * time.Second

// Document is one context-graph artifact (a handoff or a ledger).
type Document struct {
	SessionName string `json:"session_name"`
	Content     string `json:"content"`
}

// Context is the hierarchical context for one session. Either field may be
// nil when the graph has nothing for it.
type Context struct {
	Handoff *Document `json:"handoff"`
	Ledger  *Document `json:"ledger"`
}

// Graph queries the context-graph subprocess.
type Graph struct {
	// Command is the context-graph executable (configurable, default
	// "context-graph").
	Command string

	logger *zap.Logger
}

// NewGraph creates a graph client. An empty command selects the default.
func NewGraph(command string, logger *zap.Logger) *Graph {
	if command == "" {
		command = "context-graph"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{Command: command, logger: logger}
}

// wireDocument is the subprocess output: the top-level object is the handoff
// itself, with the ledger nested inside it.
type wireDocument struct {
	SessionName string        `json:"session_name"`
	Content     string        `json:"content"`
	Ledger      *wireDocument `json:"ledger"`
}

// Hierarchical fetches the handoff and ledger for a session's root span.
// Graph failures degrade to an empty context: learning extraction still
// works from the raw trace alone.
func (g *Graph) Hierarchical(ctx context.Context, rootSpanID string) *Context {
	runCtx, cancel := context.WithTimeout(ctx, graphTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, g.Command,
		"query", "--by-span-id", rootSpanID, "--with-content", "--json")
	out, err := cmd.Output()
	if err != nil {
		g.logger.Debug("context graph query failed", zap.Error(err))
		return &Context{}
	}
	if strings.TrimSpace(string(out)) == "" {
		return &Context{}
	}

	var wire wireDocument
	if err := json.Unmarshal(out, &wire); err != nil {
		g.logger.Debug("context graph output unparseable", zap.Error(err))
		return &Context{}
	}

	result := &Context{}
	if wire.Content != "" || wire.SessionName != "" {
		result.Handoff = &Document{SessionName: wire.SessionName, Content: wire.Content}
	}
	if wire.Ledger != nil {
		result.Ledger = &Document{SessionName: wire.Ledger.SessionName, Content: wire.Ledger.Content}
	}
	return result
}
