package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Membership(t *testing.T) {
	registry := NewRegistry()

	alice, _, _ := newTestSession(t, "alice")
	bob, _, _ := newTestSession(t, "bob")

	// When: two sessions register
	registry.Add(alice)
	registry.Add(bob)
	registry.Add(alice) // duplicate is ignored

	// Then: both are members, in join order
	require.Equal(t, 2, registry.Len())
	require.Equal(t, []string{alice.ID(), bob.ID()}, registry.IDs())

	got, ok := registry.Get(alice.ID())
	require.True(t, ok)
	assert.Same(t, alice, got)

	// When: one session is removed
	removed := registry.Remove(alice.ID())

	// Then: membership shrinks and a second removal is a no-op
	assert.Same(t, alice, removed)
	assert.Equal(t, 1, registry.Len())
	assert.Nil(t, registry.Remove(alice.ID()))

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Same(t, bob, snapshot[0])
}

func TestRegistry_Broadcast(t *testing.T) {
	t.Run("delivers to everyone except the excluded session", func(t *testing.T) {
		registry := NewRegistry()

		alice, _, aliceLines := newTestSession(t, "alice")
		bob, _, bobLines := newTestSession(t, "bob")
		carol, _, carolLines := newTestSession(t, "carol")

		registry.Add(alice)
		registry.Add(bob)
		registry.Add(carol)

		// When: broadcasting with bob excluded
		registry.Broadcast("hello", bob)

		// Then: alice and carol receive the line, bob does not
		assert.Equal(t, "hello", receiveLine(t, aliceLines))
		assert.Equal(t, "hello", receiveLine(t, carolLines))

		select {
		case line := <-bobLines:
			t.Fatalf("excluded session received %q", line)
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("a broken channel does not stop delivery", func(t *testing.T) {
		registry := NewRegistry()

		alice, aliceConn, _ := newTestSession(t, "alice")
		bob, _, bobLines := newTestSession(t, "bob")

		registry.Add(alice)
		registry.Add(bob)

		// Given: alice's peer dropped without the registry knowing
		require.NoError(t, aliceConn.Close())

		// When: broadcasting
		registry.Broadcast("still here", nil)

		// Then: bob still receives the line and alice stays registered;
		// removal is the connection handler's job, not the broadcaster's
		assert.Equal(t, "still here", receiveLine(t, bobLines))
		assert.Equal(t, 2, registry.Len())
	})
}

func TestRegistry_CloseAll(t *testing.T) {
	registry := NewRegistry()

	alice, _, _ := newTestSession(t, "alice")
	bob, _, _ := newTestSession(t, "bob")

	registry.Add(alice)
	registry.Add(bob)

	// When: closing every channel
	registry.CloseAll()

	// Then: all sessions report closed, membership is untouched
	assert.True(t, alice.Closed())
	assert.True(t, bob.Closed())
	assert.Equal(t, 2, registry.Len())
}
