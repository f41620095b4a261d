package connectivity

import (
	"sync"
)

type subscription struct {
	onOnline, onOffline func()
}

// Switch is an in-process Source whose value is pushed by whoever knows the
// real state, typically the browser reporting its online/offline events.
type Switch struct {
	// notify orders whole Set calls so the last value stored is also the
	// last one delivered.
	notify sync.Mutex
	mu     sync.Mutex
	online bool
	subs   map[int]subscription
	nextID int
}

// NewSwitch returns a Switch starting at online.
func NewSwitch(online bool) *Switch {
	return &Switch{online: online, subs: make(map[int]subscription)}
}

func (s *Switch) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// Set records the new value and notifies every subscriber synchronously.
// Subscribers are notified even when the value does not change. Callbacks
// must not call Set.
func (s *Switch) Set(online bool) {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	s.online = online
	subs := make([]subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		if online {
			sub.onOnline()
		} else {
			sub.onOffline()
		}
	}
}

func (s *Switch) Subscribe(onOnline, onOffline func()) func() {
	if onOnline == nil {
		onOnline = func() {}
	}
	if onOffline == nil {
		onOffline = func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = subscription{onOnline: onOnline, onOffline: onOffline}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Subscribers reports how many subscriptions are active.
func (s *Switch) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
