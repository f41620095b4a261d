// Package connectivity mirrors the online/offline signal reported by the
// platform. It does not probe the network: a captive portal still reads as
// online if the platform says so.
package connectivity

import (
	"log/slog"
	"sync"
)

// Status is the mirrored connectivity state.
type Status string

const (
	Online  Status = "online"
	Offline Status = "offline"
)

// FromBool maps the platform's boolean to a Status.
func FromBool(online bool) Status {
	if online {
		return Online
	}
	return Offline
}

// Source is a platform connectivity signal: a readable current value and two
// notifications. The returned func cancels the subscription.
type Source interface {
	Online() bool
	Subscribe(onOnline, onOffline func()) (unsubscribe func())
}

// Observer keeps the latest status reported by a Source.
type Observer struct {
	log         *slog.Logger
	mu          sync.RWMutex
	status      Status
	unsubscribe func()
	closeOnce   sync.Once
}

// NewObserver subscribes to src and seeds the status from its current value.
// Call Close to release the subscription.
func NewObserver(src Source, log *slog.Logger) *Observer {
	if log == nil {
		log = slog.Default()
	}
	o := &Observer{log: log.With("component", "connectivity"), status: FromBool(src.Online())}

	unsub := src.Subscribe(
		func() { o.set(Online) },
		func() { o.set(Offline) },
	)
	o.mu.Lock()
	o.unsubscribe = unsub
	o.mu.Unlock()
	return o
}

// Status returns the last reported status.
func (o *Observer) Status() Status {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// Close releases the subscription. Safe to call more than once.
func (o *Observer) Close() error {
	o.closeOnce.Do(func() {
		o.mu.Lock()
		unsub := o.unsubscribe
		o.unsubscribe = nil
		o.mu.Unlock()
		if unsub != nil {
			unsub()
		}
	})
	return nil
}

func (o *Observer) set(s Status) {
	o.mu.Lock()
	prev := o.status
	o.status = s
	o.mu.Unlock()
	if prev != s {
		o.log.Info("connectivity changed", "status", s)
	}
}
