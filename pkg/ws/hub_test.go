package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()

	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHub_BroadcastReview_FiltersByDealer(t *testing.T) {
	hub := startHub(t)

	all := NewClient(hub, nil, 0)
	dealer15 := NewClient(hub, nil, 15)
	dealer7 := NewClient(hub, nil, 7)
	for _, c := range []*Client{all, dealer15, dealer7} {
		require.True(t, c.Register())
	}
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 10*time.Millisecond)

	hub.BroadcastReview(15, map[string]any{"review": "Great"})

	for _, c := range []*Client{all, dealer15} {
		var msg Message
		require.NoError(t, json.Unmarshal(receive(t, c), &msg))
		assert.Equal(t, MsgTypeReviewPosted, msg.Type)
		assert.Equal(t, "Great", msg.Data.(map[string]any)["review"])
	}

	select {
	case <-dealer7.send:
		t.Fatal("dealer 7 subscriber should not receive dealer 15 reviews")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)

	c := NewClient(hub, nil, 0)
	require.True(t, c.Register())
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	c.Unregister()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)

	_, ok := <-c.send
	assert.False(t, ok, "send channel should be closed")
}

func TestHub_StoppedHubRejectsClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	<-stopped

	c := NewClient(hub, nil, 0)
	assert.False(t, c.Register())
	assert.NotPanics(t, c.Unregister)
}
