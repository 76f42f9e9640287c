package statusutil

import (
	"testing"

	"actividades-cli/internal/model"
)

func TestNormalizeState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    model.State
		wantErr bool
	}{
		{in: "", want: model.StatePending},
		{in: "pendiente", want: model.StatePending},
		{in: " Pending ", want: model.StatePending},
		{in: "en_progreso", want: model.StateInProgress},
		{in: "IN_PROGRESS", want: model.StateInProgress},
		{in: "finalizado", want: model.StateFinalized},
		{in: "done", want: model.StateFinalized},
		{in: "archivado", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeState(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeState(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeState(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNext_Cycles(t *testing.T) {
	if got := Next(model.StatePending); got != model.StateInProgress {
		t.Fatalf("Next(pending) = %q", got)
	}
	if got := Next(model.StateFinalized); got != model.StatePending {
		t.Fatalf("Next(finalized) = %q", got)
	}
	if got := Next("OTRO"); got != model.StatePending {
		t.Fatalf("Next(unknown) = %q", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label(model.StateInProgress); got != "En progreso" {
		t.Fatalf("Label = %q", got)
	}
	if got := Label("CUSTOM"); got != "CUSTOM" {
		t.Fatalf("Label(unknown) = %q", got)
	}
}
