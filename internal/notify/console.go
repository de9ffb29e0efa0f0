package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	consoleTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("215")). // Orange
				Bold(true)

	consoleBodyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

// Console prints notifications to a terminal.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	colored bool
}

// NewConsole writes to out, styled when colored is set.
func NewConsole(out io.Writer, colored bool) *Console {
	return &Console{out: out, colored: colored}
}

func (c *Console) Notify(_ context.Context, n Notification) error {
	title := "🔔 " + n.Title
	body := n.Body
	if c.colored {
		title = consoleTitleStyle.Render(title)
		body = consoleBodyStyle.Render(body)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.out, "\r\033[K%s — %s\n", title, body); err != nil {
		return fmt.Errorf("%w: console: %w", ErrNotification, err)
	}
	return nil
}
