package minipl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolTableInsertLookup(t *testing.T) {
	tab := NewSymbolTable()

	assert.True(t, tab.Insert("x", IntValue(1)))
	assert.False(t, tab.Insert("x", IntValue(2)), "redeclaration must be rejected")

	v, ok := tab.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, IntValue(1), v)

	_, ok = tab.Lookup("missing")
	assert.False(t, ok)
}

func TestSymbolTableUpdate(t *testing.T) {
	tab := NewSymbolTable()
	tab.Insert("x", IntValue(1))

	assert.NoError(t, tab.Update("x", IntValue(5)))
	v, _ := tab.Lookup("x")
	assert.Equal(t, int64(5), v.Int)

	assert.Error(t, tab.Update("y", IntValue(0)))
}

func TestSymbolTableConstantProtection(t *testing.T) {
	tab := NewSymbolTable()
	tab.Insert("i", IntValue(0))
	tab.SetConstant("i", true)

	assert.Error(t, tab.Update("i", IntValue(1)))

	tab.ForceUpdate("i", IntValue(1))
	v, _ := tab.Lookup("i")
	assert.Equal(t, int64(1), v.Int)
	assert.True(t, v.Constant, "ForceUpdate must preserve the Constant flag")

	tab.SetConstant("i", false)
	assert.NoError(t, tab.Update("i", IntValue(2)))
}
