// Package install captures the platform's deferred "add to home screen"
// prompt and replays it when the user asks for it.
package install

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Outcome is the user's answer to the native install dialog.
type Outcome string

const (
	// OutcomeNone means no dialog was shown.
	OutcomeNone Outcome = ""
	Accepted    Outcome = "accepted"
	Dismissed   Outcome = "dismissed"
)

// ParseOutcome accepts "accepted" or "dismissed".
func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case Accepted, Dismissed:
		return o, nil
	default:
		return OutcomeNone, fmt.Errorf("unknown install outcome %q", s)
	}
}

// State of the mediator.
type State string

const (
	NoPromptAvailable State = "no_prompt_available"
	PromptCaptured    State = "prompt_captured"
)

// Event is the platform's "can install" signal. It carries a prompt that
// can be shown later and yields the user's choice.
type Event interface {
	// PreventDefault stops the platform from showing its own prompt.
	PreventDefault()
	// Prompt shows the native install dialog.
	Prompt(ctx context.Context) error
	// UserChoice waits for the user to accept or dismiss the dialog.
	UserChoice(ctx context.Context) (Outcome, error)
}

// Source delivers "can install" events.
type Source interface {
	Subscribe(fn func(Event)) (unsubscribe func())
}

// Mediator holds at most one captured prompt. The install affordance should
// only be offered while Available reports true.
type Mediator struct {
	log        *slog.Logger
	mu         sync.Mutex
	prompt     Event
	installing bool
}

func NewMediator(log *slog.Logger) *Mediator {
	if log == nil {
		log = slog.Default()
	}
	return &Mediator{log: log.With("component", "install")}
}

// Capture suppresses the platform's default handling of ev and keeps it for
// later. A newer event replaces an older one.
func (m *Mediator) Capture(ev Event) {
	ev.PreventDefault()
	m.mu.Lock()
	m.prompt = ev
	m.mu.Unlock()
	m.log.Debug("install prompt captured")
}

// Listen captures every event from src until the returned func is called.
func (m *Mediator) Listen(src Source) (stop func()) {
	return src.Subscribe(m.Capture)
}

func (m *Mediator) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prompt != nil {
		return PromptCaptured
	}
	return NoPromptAvailable
}

// Available reports whether a prompt is captured.
func (m *Mediator) Available() bool {
	return m.State() == PromptCaptured
}

// Installing reports whether a dialog is currently shown.
func (m *Mediator) Installing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installing
}

// Install shows the captured prompt and waits for the user's choice. Whatever
// happens, the captured prompt is consumed. Without a captured prompt, or
// while another dialog is open, Install does nothing and returns OutcomeNone.
func (m *Mediator) Install(ctx context.Context) (Outcome, error) {
	m.mu.Lock()
	ev := m.prompt
	if ev == nil || m.installing {
		m.mu.Unlock()
		return OutcomeNone, nil
	}
	m.installing = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		if m.prompt == ev {
			m.prompt = nil
		}
		m.installing = false
		m.mu.Unlock()
	}()

	if err := ev.Prompt(ctx); err != nil {
		return OutcomeNone, fmt.Errorf("show install prompt: %w", err)
	}
	outcome, err := ev.UserChoice(ctx)
	if err != nil {
		return OutcomeNone, fmt.Errorf("install choice: %w", err)
	}
	m.log.Info("user response to install", "outcome", outcome)
	return outcome, nil
}
