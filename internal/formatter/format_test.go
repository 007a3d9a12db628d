package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{123456, "123.5K"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokens(tt.in))
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{45, "45s"},
		{90, "2m"},
		{600, "10m"},
		{5400, "1.5h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.in))
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", ShortID("abc", 8))
	assert.Equal(t, "abcdefgh...", ShortID("abcdefgh-1234", 8))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", Clip("short", 10))
	assert.Equal(t, "0123456789...", Clip("0123456789extra", 10))
}

func TestJSON(t *testing.T) {
	var b strings.Builder
	err := JSON(&b, map[string]int{"count": 3})
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"count\": 3\n}\n", b.String())
}
