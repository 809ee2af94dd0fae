package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBindLookupUnbind(t *testing.T) {
	reg := NewRegistry()
	c := newFakeConn("c1")

	_, _, ok := reg.Lookup(c)
	assert.False(t, ok)

	reg.Bind(c, "r1", user("alice"))
	roomID, u, ok := reg.Lookup(c)
	require.True(t, ok)
	assert.EqualValues(t, "r1", roomID)
	assert.EqualValues(t, "alice", u.ID)
	assert.Equal(t, 1, reg.Count())

	reg.Bind(c, "r2", user("alice2"))
	roomID, u, ok = reg.Lookup(c)
	require.True(t, ok)
	assert.EqualValues(t, "r2", roomID)
	assert.EqualValues(t, "alice2", u.ID)
	assert.Equal(t, 1, reg.Count())

	roomID, _, ok = reg.Unbind(c)
	require.True(t, ok)
	assert.EqualValues(t, "r2", roomID)
	assert.Equal(t, 0, reg.Count())

	_, _, ok = reg.Unbind(c)
	assert.False(t, ok)
}
