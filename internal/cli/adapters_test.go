package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"actividades-cli/internal/controller"

	"github.com/stretchr/testify/assert"
)

func TestIsYes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"s", true},
		{"Sí\n", true},
		{" yes ", true},
		{"si", true},
		{"", false},
		{"n", false},
		{"no", false},
		{"dale", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isYes(tt.in, "Dale"), "input %q", tt.in)
	}
}

func TestTermConfirmer(t *testing.T) {
	t.Parallel()

	p := controller.Prompt{Header: "H", Message: "M", AcceptLabel: "Si", RejectLabel: "No"}

	t.Run("accept", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := newTermConfirmer(context.Background(), strings.NewReader("si\n"), &out, false)
		ran := false
		c.Confirm(p, func(context.Context) { ran = true })
		assert.True(t, ran)
		assert.True(t, c.asked)
		assert.True(t, c.accepted)
		assert.Contains(t, out.String(), "M [Si/No]: ")
	})

	t.Run("reject on eof", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := newTermConfirmer(context.Background(), strings.NewReader(""), &out, false)
		ran := false
		c.Confirm(p, func(context.Context) { ran = true })
		assert.False(t, ran)
		assert.True(t, c.asked)
		assert.False(t, c.accepted)
	})

	t.Run("assume yes skips the prompt", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer
		c := newTermConfirmer(context.Background(), strings.NewReader(""), &out, true)
		ran := false
		c.Confirm(p, func(context.Context) { ran = true })
		assert.True(t, ran)
		assert.Empty(t, out.String())
	})
}

func TestTermNotifier_CountsFailures(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	n := &termNotifier{w: &out}
	n.Notify(controller.SeveritySuccess, "bien")
	n.Notify(controller.SeverityWarn, "ojo")
	n.Notify(controller.SeverityError, "mal")

	assert.Equal(t, 2, n.failures)
	assert.Equal(t, 3, strings.Count(out.String(), "\n"))
	assert.Contains(t, out.String(), "ojo")
}
