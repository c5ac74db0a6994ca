package watch

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/orris-inc/notifyd/sdk/notify"
)

var (
	idStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	messageStyle = lipgloss.NewStyle().PaddingLeft(2)
	linkStyle    = lipgloss.NewStyle().PaddingLeft(2).Underline(true).Foreground(lipgloss.Color("6"))
	hintStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// terminalPresenter prints notifications as they are first seen.
type terminalPresenter struct {
	mu  sync.Mutex
	out io.Writer
}

func newTerminalPresenter(out io.Writer) *terminalPresenter {
	return &terminalPresenter{out: out}
}

func (p *terminalPresenter) Present(items []notify.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, item := range items {
		fmt.Fprintln(p.out, renderItem(item))
	}
}

func (p *terminalPresenter) Hint(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, hintStyle.Render(msg))
}

func (p *terminalPresenter) Error(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, errorStyle.Render(fmt.Sprintf("%s failed: %v", op, err)))
}

func renderItem(item notify.Item) string {
	var b strings.Builder
	b.WriteString(idStyle.Render(fmt.Sprintf("#%d", item.ID)))
	b.WriteString(" ")
	b.WriteString(timeStyle.Render(item.CreatedAt.Local().Format(time.DateTime)))
	b.WriteString("\n")
	b.WriteString(messageStyle.Render(item.Message))
	if item.TargetURL != nil && *item.TargetURL != "" {
		b.WriteString("\n")
		b.WriteString(linkStyle.Render(*item.TargetURL))
	}
	return b.String()
}
