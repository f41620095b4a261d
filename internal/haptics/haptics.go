// Package haptics forwards short vibration requests to whatever device is
// driving the UI. Delivery is best effort: callers never see a failure.
package haptics

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Patterns used by the task list.
var (
	Add            = []time.Duration{10 * time.Millisecond}
	Toggle         = []time.Duration{5 * time.Millisecond}
	Delete         = []time.Duration{15 * time.Millisecond}
	ClearCompleted = []time.Duration{15 * time.Millisecond, 40 * time.Millisecond, 15 * time.Millisecond}
)

// SubjectVibrate is where NATSSink publishes requests.
const SubjectVibrate = "lumina.haptics.vibrate"

// Sink accepts a vibration request: one duration, or alternating
// vibrate/pause durations.
type Sink interface {
	Vibrate(pattern ...time.Duration)
}

// Nop is used when no haptic device is available.
type Nop struct{}

func (Nop) Vibrate(...time.Duration) {}

// Request is the payload published by NATSSink.
type Request struct {
	PatternMS []int64 `json:"pattern_ms"`
}

// NATSSink publishes vibration requests for connected clients to pick up.
type NATSSink struct {
	nc      *nats.Conn
	subject string
	log     *slog.Logger
}

// NewNATSSink publishes on SubjectVibrate through nc.
func NewNATSSink(nc *nats.Conn, log *slog.Logger) *NATSSink {
	if log == nil {
		log = slog.Default()
	}
	return &NATSSink{nc: nc, subject: SubjectVibrate, log: log}
}

func (s *NATSSink) Vibrate(pattern ...time.Duration) {
	if len(pattern) == 0 {
		return
	}
	req := Request{PatternMS: make([]int64, len(pattern))}
	for i, d := range pattern {
		req.PatternMS[i] = d.Milliseconds()
	}
	b, err := json.Marshal(req)
	if err != nil {
		return
	}
	if err := s.nc.Publish(s.subject, b); err != nil {
		s.log.Debug("haptics publish dropped", "error", err)
	}
}
