package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/reminders/internal/calendar"
	"github.com/notexe/reminders/internal/reminder"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")). // Yellow
			Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // Light purple

	BadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("203")).
			Bold(true).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")). // Soft blue border
			Padding(0, 1)

	DoneCardStyle = CardStyle.
			BorderForeground(lipgloss.Color("240"))

	SelectedDayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("62")).
				Bold(true)

	MarkedDayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215")). // Orange
			Bold(true)
)

// DateLayout renders a selected day, e.g. "Mon Oct 19 2026".
const DateLayout = "Mon Jan 02 2006"

type Formatter struct {
	colored  bool
	wordWrap int
}

func NewFormatter(colored bool, wordWrap int) *Formatter {
	if wordWrap <= 0 {
		wordWrap = 80
	}
	return &Formatter{colored: colored, wordWrap: wordWrap}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Error: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

func (f *Formatter) FormatSystem(msg string) string {
	return f.render(SystemStyle, msg)
}

func (f *Formatter) FormatSuccess(msg string) string {
	return f.render(SuccessStyle, msg)
}

func (f *Formatter) FormatPrompt(label string) string {
	return f.render(AccentStyle, label)
}

// FormatHeader renders the app title with the reminder count badge.
func (f *Formatter) FormatHeader(count int) string {
	badge := fmt.Sprintf("[%d]", count)
	if f.colored {
		badge = BadgeStyle.Render(fmt.Sprintf("%d", count))
	}
	return f.render(HeaderStyle, "Reminders") + " " + badge
}

// FormatMonth renders a Sunday-first month grid. The selected day is
// highlighted; days in marked carry reminders.
func (f *Formatter) FormatMonth(m calendar.Month, selected time.Time, marked map[int]bool) string {
	var sb strings.Builder

	title := "< " + m.Label() + " >"
	pad := max(0, (7*4-len(title))/2)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(f.render(HeaderStyle, title))
	sb.WriteString("\n")

	for _, name := range calendar.WeekdayNames {
		sb.WriteString(f.render(DimStyle, fmt.Sprintf("%-4s", name)))
	}
	sb.WriteString("\n")

	for i, day := range m.Grid() {
		cell := "    "
		if day > 0 {
			label := fmt.Sprintf("%2d", day)
			switch {
			case m.Contains(selected) && selected.Day() == day:
				label = f.render(SelectedDayStyle, label)
			case marked[day]:
				label = f.render(MarkedDayStyle, label)
			}
			marker := "  "
			if marked[day] {
				marker = "• "
			}
			cell = label + marker
		}
		sb.WriteString(cell)
		if i%7 == 6 {
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatCard renders one reminder with its list index.
func (f *Formatter) FormatCard(e reminder.Entry, now time.Time) string {
	r := e.Reminder

	title := fmt.Sprintf("#%d %s", e.Index, r.Title)
	status := "○"
	if r.Done {
		status = "✓"
	}

	lines := []string{f.render(HeaderStyle, status+" "+title)}
	if r.Description != "" {
		lines = append(lines, r.Description)
	}

	summary := reminder.Summary(r, now)
	if !r.Done && reminder.OverdueMinutes(r, now) > 0 {
		summary = f.render(WarningStyle, summary)
	}
	lines = append(lines, summary, f.render(DimStyle, string(r.Frequency)))

	body := strings.Join(lines, "\n")
	if !f.colored {
		return body
	}
	if r.Done {
		return DoneCardStyle.Render(body)
	}
	return CardStyle.Render(body)
}

// FormatDay renders the reminders of the selected day.
func (f *Formatter) FormatDay(day time.Time, entries []reminder.Entry, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(f.render(HeaderStyle, day.Format(DateLayout)))
	sb.WriteString("\n")

	if len(entries) == 0 {
		sb.WriteString(f.render(DimStyle, "No reminders for this date\nType /add to create one"))
		return sb.String()
	}

	cards := make([]string, 0, len(entries))
	for _, e := range entries {
		cards = append(cards, f.FormatCard(e, now))
	}
	sb.WriteString(strings.Join(cards, "\n"))
	return sb.String()
}

// RenderMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails or colors are off.
func (f *Formatter) RenderMarkdown(md string) string {
	if !f.colored {
		return md
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(f.wordWrap),
	)
	if err != nil {
		return md
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}

	return strings.TrimSpace(rendered)
}
