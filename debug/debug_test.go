package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_PreservesInsertionOrder(t *testing.T) {
	info := NewInfo()
	info.Set("b", "2")
	info.Set("a", "1")
	info.Set("b", "3")

	assert.Equal(t, []string{"b", "a"}, info.Keys())
	v, ok := info.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	assert.Equal(t, 2, info.Len())

	_, ok = info.Get("missing")
	assert.False(t, ok)
}

func TestEnable_TogglesTrace(t *testing.T) {
	Enable(false)
	assert.False(t, Enabled())
	Enable(true)
	assert.True(t, Enabled())
	Trace("value=%d", 42)
	Enable(false)
}
