package braintrust

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowStr(t *testing.T) {
	r := Row{"name": "Bash", "count": 3.0}

	assert.Equal(t, "Bash", r.Str("name"))
	assert.Equal(t, "", r.Str("missing"))
	assert.Equal(t, "", r.Str("count"))
}

func TestRowInt(t *testing.T) {
	r := Row{"float": 42.0, "int": 7, "int64": int64(9), "str": "12", "null": nil}

	assert.Equal(t, 42, r.Int("float"))
	assert.Equal(t, 7, r.Int("int"))
	assert.Equal(t, 9, r.Int("int64"))
	assert.Equal(t, 0, r.Int("str"))
	assert.Equal(t, 0, r.Int("null"))
	assert.Equal(t, 0, r.Int("missing"))
}

func TestRowMap(t *testing.T) {
	r := Row{"meta": map[string]any{"tool_name": "Read"}, "flat": "x"}

	assert.Equal(t, "Read", r.Map("meta")["tool_name"])
	assert.NotNil(t, r.Map("missing"))
	assert.Empty(t, r.Map("flat"))
}

func TestRowList(t *testing.T) {
	r := Row{"calls": []any{"a", "b"}}

	assert.Len(t, r.List("calls"), 2)
	assert.Nil(t, r.List("missing"))
}
