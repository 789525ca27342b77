package platform

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortFromNameIsStableAndInRange(t *testing.T) {
	first := portFromName("FocusDash")
	assert.Equal(t, first, portFromName("FocusDash"))
	assert.GreaterOrEqual(t, first, 20000)
	assert.LessOrEqual(t, first, 39999)
}

func TestSecondInstanceAsksFirstToShow(t *testing.T) {
	shown := make(chan struct{}, 1)
	first, err := acquireAt("127.0.0.1:0", func() { shown <- struct{}{} })
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Release() })

	second, err := acquireAt(first.Address(), nil)
	assert.Nil(t, second)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	select {
	case <-shown:
	case <-time.After(2 * time.Second):
		t.Fatal("first instance was not asked to show")
	}
}

func TestForeignListenerIsNotMistakenForInstance(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	t.Cleanup(func() { _ = listener.Close() })

	guard, err := acquireAt(listener.Addr().String(), nil)
	assert.Nil(t, guard)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyRunning)
}

func TestReleaseIsIdempotentForNilGuard(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())
}
