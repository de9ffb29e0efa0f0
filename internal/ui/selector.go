package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user aborts a selection.
var ErrCancelled = fmt.Errorf("cancelled")

// Selector provides an interactive arrow-key navigable menu
type Selector struct {
	question string
	options  []string
	selected int
	colored  bool

	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	optionStyle   lipgloss.Style
	dimStyle      lipgloss.Style
	questionStyle lipgloss.Style
	hintStyle     lipgloss.Style
}

// NewSelector creates a selector with the cursor on the option equal to
// initial, or on the first option.
func NewSelector(question string, options []string, initial string, colored bool) *Selector {
	selected := 0
	for i, opt := range options {
		if strings.EqualFold(opt, initial) {
			selected = i
			break
		}
	}
	return &Selector{
		question: question,
		options:  options,
		selected: selected,
		colored:  colored,

		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		optionStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		questionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		hintStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

// Run displays the selector and returns the chosen option
func (s *Selector) Run() (string, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return s.RunSimple(os.Stdin, os.Stdout)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return s.RunSimple(os.Stdin, os.Stdout)
	}

	cleanup := func() {
		term.Restore(fd, oldState)
		fmt.Print("\033[?25h") // Show cursor
	}
	defer cleanup()

	// Hide cursor
	fmt.Print("\033[?25l")

	totalLines := len(s.options) + 3

	s.printMenu()

	reader := bufio.NewReader(os.Stdin)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return "", err
		}

		chosen := false

		switch b {
		case 13, 10, ' ': // Enter
			chosen = true
		case 3, 'q': // Ctrl+C
			s.clearMenu(totalLines)
			return "", ErrCancelled
		case 'j': // vim down
			s.moveDown()
		case 'k': // vim up
			s.moveUp()
		case 27: // Escape sequence
			b2, _ := reader.ReadByte()
			if b2 == '[' {
				b3, _ := reader.ReadByte()
				switch b3 {
				case 'A': // Up
					s.moveUp()
				case 'B': // Down
					s.moveDown()
				}
			}
		default:
			if b >= '1' && b <= '9' {
				idx := int(b - '1')
				if idx < len(s.options) {
					s.selected = idx
					chosen = true
				}
			}
		}

		if chosen {
			s.clearMenu(totalLines)
			return s.options[s.selected], nil
		}

		s.clearMenu(totalLines)
		s.printMenu()
	}
}

func (s *Selector) printMenu() {
	var sb strings.Builder

	if s.colored {
		sb.WriteString(s.questionStyle.Render(s.question))
	} else {
		sb.WriteString(s.question)
	}
	sb.WriteString("\r\n")

	hint := "[j/k or arrows] move  [enter] select"
	if s.colored {
		sb.WriteString(s.hintStyle.Render(hint))
	} else {
		sb.WriteString(hint)
	}
	sb.WriteString("\r\n\r\n")

	for i, opt := range s.options {
		cursor := "  "
		if i == s.selected {
			cursor = "> "
		}

		if s.colored {
			if i == s.selected {
				sb.WriteString(s.cursorStyle.Render(cursor))
				sb.WriteString(s.selectedStyle.Render(opt))
			} else {
				sb.WriteString(s.dimStyle.Render(cursor))
				sb.WriteString(s.optionStyle.Render(opt))
			}
		} else {
			sb.WriteString(cursor + opt)
		}
		sb.WriteString("\r\n")
	}

	fmt.Print(sb.String())
	os.Stdout.Sync()
}

func (s *Selector) clearMenu(lines int) {
	for i := 0; i < lines; i++ {
		fmt.Print("\033[A\033[2K\r")
	}
	os.Stdout.Sync()
}

// RunSimple is the numbered-list fallback for non-terminal input. An empty
// or invalid answer keeps the current option.
func (s *Selector) RunSimple(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprintln(out, s.question)
	for i, opt := range s.options {
		fmt.Fprintf(out, "  [%d] %s\n", i+1, opt)
	}
	fmt.Fprintf(out, "Enter number (default %d): ", s.selected+1)

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		if err == io.EOF {
			return s.options[s.selected], nil
		}
		return "", err
	}
	input = strings.TrimSpace(input)

	if len(input) == 1 && input[0] >= '1' && input[0] <= '9' {
		idx := int(input[0] - '1')
		if idx < len(s.options) {
			return s.options[idx], nil
		}
	}

	return s.options[s.selected], nil
}

func (s *Selector) moveUp() {
	if s.selected > 0 {
		s.selected--
	} else {
		s.selected = len(s.options) - 1
	}
}

func (s *Selector) moveDown() {
	if s.selected < len(s.options)-1 {
		s.selected++
	} else {
		s.selected = 0
	}
}
