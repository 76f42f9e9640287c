package tui

import (
	"context"
	"sync"

	"actividades-cli/internal/controller"
)

type toast struct {
	sev controller.Severity
	msg string
}

type pendingConfirm struct {
	prompt controller.Prompt
	accept func(ctx context.Context)
}

// effects is what the controllers asked the UI to do during one call.
type effects struct {
	toasts   []toast
	confirms []pendingConfirm
	dialogs  []controller.Dialog
	route    *controller.Route
}

func (e effects) empty() bool {
	return len(e.toasts) == 0 && len(e.confirms) == 0 && len(e.dialogs) == 0 && e.route == nil
}

// effectSink collects collaborator calls made by controllers, which may run
// inside tea.Cmd goroutines. Update drains it and applies the effects on the
// UI loop.
type effectSink struct {
	mu      sync.Mutex
	pending effects
}

func (s *effectSink) Notify(sev controller.Severity, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.toasts = append(s.pending.toasts, toast{sev: sev, msg: msg})
}

func (s *effectSink) Confirm(p controller.Prompt, accept func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.confirms = append(s.pending.confirms, pendingConfirm{prompt: p, accept: accept})
}

func (s *effectSink) Open(d controller.Dialog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.dialogs = append(s.pending.dialogs, d)
}

func (s *effectSink) Navigate(r controller.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.route = &r
}

func (s *effectSink) drain() effects {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = effects{}
	return out
}
