package tui

import (
	"context"
	"testing"

	"actividades-cli/internal/controller"
)

func TestEffectSink_DrainResets(t *testing.T) {
	t.Parallel()

	s := &effectSink{}
	s.Notify(controller.SeverityWarn, "a")
	s.Confirm(controller.Prompt{Header: "h"}, func(context.Context) {})
	s.Open(controller.Dialog{Kind: controller.DialogWelcome, Welcome: &controller.Welcome{Username: "u"}})
	s.Navigate(controller.RouteExecutor)

	fx := s.drain()
	if len(fx.toasts) != 1 || len(fx.confirms) != 1 || len(fx.dialogs) != 1 || fx.route == nil || *fx.route != controller.RouteExecutor {
		t.Fatalf("unexpected effects: %+v", fx)
	}
	if !s.drain().empty() {
		t.Fatalf("expected empty sink after drain")
	}
}
