package haptics

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopAcceptsAnything(t *testing.T) {
	var s Sink = Nop{}
	assert.NotPanics(t, func() {
		s.Vibrate()
		s.Vibrate(ClearCompleted...)
	})
}

func TestPatterns(t *testing.T) {
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, Add)
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, Toggle)
	assert.Equal(t, []time.Duration{15 * time.Millisecond}, Delete)
	assert.Equal(t, []time.Duration{15 * time.Millisecond, 40 * time.Millisecond, 15 * time.Millisecond}, ClearCompleted)
}

func TestNATSSinkPublishes(t *testing.T) {
	url := os.Getenv("TEST_NATS_URL")
	if url == "" {
		t.Skip("TEST_NATS_URL not set")
	}
	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	sub, err := nc.SubscribeSync(SubjectVibrate)
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	NewNATSSink(nc, nil).Vibrate(ClearCompleted...)

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	var req Request
	require.NoError(t, json.Unmarshal(msg.Data, &req))
	assert.Equal(t, []int64{15, 40, 15}, req.PatternMS)
}
