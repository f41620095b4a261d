package install

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrNoPendingPrompt is returned by Relay.Resolve when no dialog is shown.
	ErrNoPendingPrompt = errors.New("no install dialog is showing")
	// ErrAlreadyPrompted is returned when a prompt is shown a second time.
	ErrAlreadyPrompted = errors.New("install prompt already shown")
)

// DeferredPrompt is an Event whose dialog is shown and answered out of
// process: Shown is closed when Prompt is called, and the answer arrives
// through Relay.Resolve.
type DeferredPrompt struct {
	prevented atomic.Bool

	showOnce sync.Once
	shown    chan struct{}

	resolveOnce sync.Once
	resolved    chan struct{}
	outcome     Outcome
}

func newDeferredPrompt() *DeferredPrompt {
	return &DeferredPrompt{shown: make(chan struct{}), resolved: make(chan struct{})}
}

func (p *DeferredPrompt) PreventDefault() { p.prevented.Store(true) }

// DefaultPrevented reports whether PreventDefault was called.
func (p *DeferredPrompt) DefaultPrevented() bool { return p.prevented.Load() }

// Prompt marks the dialog as shown. A prompt can only be shown once.
func (p *DeferredPrompt) Prompt(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := ErrAlreadyPrompted
	p.showOnce.Do(func() {
		close(p.shown)
		err = nil
	})
	return err
}

// Shown is closed once the dialog has been shown.
func (p *DeferredPrompt) Shown() <-chan struct{} { return p.shown }

func (p *DeferredPrompt) isShown() bool {
	select {
	case <-p.shown:
		return true
	default:
		return false
	}
}

func (p *DeferredPrompt) UserChoice(ctx context.Context) (Outcome, error) {
	select {
	case <-p.resolved:
		return p.outcome, nil
	case <-ctx.Done():
		// Nobody waits for the answer any more; a late Resolve must fail.
		p.resolve(OutcomeNone)
		return OutcomeNone, ctx.Err()
	}
}

// open reports whether the dialog is shown and still waiting for an answer.
func (p *DeferredPrompt) open() bool {
	select {
	case <-p.resolved:
		return false
	default:
		return p.isShown()
	}
}

func (p *DeferredPrompt) resolve(o Outcome) bool {
	ok := false
	p.resolveOnce.Do(func() {
		p.outcome = o
		close(p.resolved)
		ok = true
	})
	return ok
}

// Relay is a Source fed from outside the process: Offer announces that the
// platform can install, Resolve delivers the user's answer to the dialog.
type Relay struct {
	mu      sync.Mutex
	subs    map[int]func(Event)
	nextID  int
	pending *DeferredPrompt
}

func NewRelay() *Relay {
	return &Relay{subs: make(map[int]func(Event))}
}

func (r *Relay) Subscribe(fn func(Event)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// Offer emits a new prompt to every subscriber and returns it. While a dialog
// is open the offer is ignored and the open prompt is returned.
func (r *Relay) Offer() *DeferredPrompt {
	r.mu.Lock()
	if r.pending != nil && r.pending.open() {
		p := r.pending
		r.mu.Unlock()
		return p
	}
	p := newDeferredPrompt()
	r.pending = p
	subs := make([]func(Event), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
	return p
}

// Resolve answers the dialog of the latest offered prompt. It fails with
// ErrNoPendingPrompt unless that prompt is shown and its waiter is still
// there.
func (r *Relay) Resolve(o Outcome) error {
	r.mu.Lock()
	p := r.pending
	if p == nil || !p.isShown() {
		r.mu.Unlock()
		return ErrNoPendingPrompt
	}
	r.pending = nil
	r.mu.Unlock()

	if !p.resolve(o) {
		return ErrNoPendingPrompt
	}
	return nil
}
