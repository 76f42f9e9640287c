package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"actividades-cli/internal/controller"

	"github.com/fatih/color"
)

// termNotifier prints controller notifications to stderr, one per line.
type termNotifier struct {
	mu       sync.Mutex
	w        io.Writer
	failures int
}

var severityPaint = map[controller.Severity]*color.Color{
	controller.SeverityInfo:    color.New(color.FgBlue),
	controller.SeveritySuccess: color.New(color.FgGreen),
	controller.SeverityWarn:    color.New(color.FgYellow),
	controller.SeverityError:   color.New(color.FgRed, color.Bold),
}

var severityMark = map[controller.Severity]string{
	controller.SeverityInfo:    "i",
	controller.SeveritySuccess: "✓",
	controller.SeverityWarn:    "!",
	controller.SeverityError:   "✗",
}

func (n *termNotifier) Notify(sev controller.Severity, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if sev == controller.SeverityWarn || sev == controller.SeverityError {
		n.failures++
	}
	fmt.Fprintf(n.w, "%s %s\n", severityPaint[sev].Sprint(severityMark[sev]), msg)
}

// termConfirmer asks on the terminal. With assumeYes the prompt is skipped.
type termConfirmer struct {
	ctx       context.Context
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool

	asked    bool
	accepted bool
}

func newTermConfirmer(ctx context.Context, in io.Reader, out io.Writer, assumeYes bool) *termConfirmer {
	return &termConfirmer{ctx: ctx, in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (c *termConfirmer) Confirm(p controller.Prompt, accept func(ctx context.Context)) {
	c.asked = true
	if !c.assumeYes {
		fmt.Fprintf(c.out, "%s\n%s [%s/%s]: ", color.New(color.Bold).Sprint(p.Header), p.Message, p.AcceptLabel, p.RejectLabel)
		line, _ := c.in.ReadString('\n')
		if !isYes(line, p.AcceptLabel) {
			return
		}
	}
	c.accepted = true
	accept(c.ctx)
}

func isYes(answer, acceptLabel string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	if a == "" {
		return false
	}
	switch a {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return a == strings.ToLower(acceptLabel)
}

// textDialogs prints informational dialogs as short text blocks.
type textDialogs struct {
	w io.Writer
}

var dialogLabel = color.New(color.Bold)

func (d textDialogs) Open(dl controller.Dialog) {
	switch dl.Kind {
	case controller.DialogUserInfo:
		if dl.User == nil {
			return
		}
		u := dl.User
		fmt.Fprintf(d.w, "%s %s\n", dialogLabel.Sprint("Usuario:"), u.Name)
		fmt.Fprintf(d.w, "%s %d\n", dialogLabel.Sprint("ID:"), u.ID)
		if u.Email != "" {
			fmt.Fprintf(d.w, "%s %s\n", dialogLabel.Sprint("Email:"), u.Email)
		}
		fmt.Fprintf(d.w, "%s %s\n\n", dialogLabel.Sprint("Rol:"), u.Role.Label())
	case controller.DialogWelcome:
		if dl.Welcome == nil {
			return
		}
		fmt.Fprintf(d.w, "¡Bienvenido, %s! (%s)\n", dl.Welcome.Username, dl.Welcome.RoleLabel)
	}
}

// lastRoute remembers where the login flow would navigate to.
type lastRoute struct {
	route controller.Route
	set   bool
}

func (r *lastRoute) Navigate(route controller.Route) {
	r.route = route
	r.set = true
}
