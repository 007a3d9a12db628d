package precedent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHierarchicalMissingCommandDegrades(t *testing.T) {
	g := NewGraph("tracelens-no-such-command", nil)

	got := g.Hierarchical(context.Background(), "span-1")

	// A missing or failing graph tool must never abort the caller.
	assert.NotNil(t, got)
	assert.Nil(t, got.Handoff)
	assert.Nil(t, got.Ledger)
}

func TestNewGraphDefaultCommand(t *testing.T) {
	g := NewGraph("", nil)
	assert.Equal(t, "context-graph", g.Command)
}
