// Package tui provides an interactive terminal inspector for collision
// scenes: a body list on the left, the selected model's shape registry
// on the right.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colmak/collsim/internal/collide"
	"github.com/colmak/collsim/internal/world"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))

	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
)

// Inspector is the bubbletea model for scene browsing.
type Inspector struct {
	w *world.World

	body  int
	shape int

	// When set, navigation moves through the selected body's shapes.
	focusShapes bool
}

func NewInspector(w *world.World) *Inspector {
	return &Inspector{w: w}
}

func (ins *Inspector) Init() tea.Cmd { return nil }

func (ins *Inspector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return ins, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return ins, tea.Quit
	case "j", "down":
		ins.move(1)
	case "k", "up":
		ins.move(-1)
	case "tab", "enter", "l", "right":
		if ins.w.NumModels() > 0 {
			ins.focusShapes = true
		}
	case "h", "left":
		ins.focusShapes = false
		ins.shape = 0
	}
	return ins, nil
}

func (ins *Inspector) move(delta int) {
	if ins.focusShapes {
		n := ins.current().NumShapes()
		if n == 0 {
			return
		}
		ins.shape = clamp(ins.shape+delta, n)
		return
	}
	if n := ins.w.NumModels(); n > 0 {
		ins.body = clamp(ins.body+delta, n)
		ins.shape = 0
	}
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (ins *Inspector) current() *collide.Model {
	return ins.w.ModelAt(ins.body)
}

func (ins *Inspector) View() string {
	if ins.w.NumModels() == 0 {
		return dim.Render("empty scene") + "\n" + ins.footer()
	}

	left := ins.bodyPane()
	right := ins.shapePane()
	row := lipgloss.JoinHorizontal(lipgloss.Top, panel.Render(left), panel.Render(right))
	return row + "\n" + ins.footer()
}

func (ins *Inspector) bodyPane() string {
	var b strings.Builder
	b.WriteString(cyan.Render("bodies") + "\n")
	for i := 0; i < ins.w.NumModels(); i++ {
		m := ins.w.ModelAt(i)
		label := "unnamed"
		if c := m.Contactable(); c != nil {
			label = c.Label()
		}
		line := fmt.Sprintf("%-14s fam %-2d mask %04x  %d shapes",
			label, m.Family(), m.FamilyMask(), m.NumShapes())
		if i == ins.body && !ins.focusShapes {
			b.WriteString(white.Render("> "+line) + "\n")
		} else {
			b.WriteString(dim.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

func (ins *Inspector) shapePane() string {
	m := ins.current()
	var b strings.Builder
	b.WriteString(cyan.Render("shapes") + "\n")
	if m.NumShapes() == 0 {
		b.WriteString(dim.Render("  (none)") + "\n")
		return b.String()
	}
	for i := 0; i < m.NumShapes(); i++ {
		s := m.ShapeAt(i)
		line := fmt.Sprintf("%-16s %v", s.Kind, s.Params)
		if i == ins.shape && ins.focusShapes {
			b.WriteString(white.Render("> "+line) + "\n")
		} else {
			b.WriteString(dim.Render("  "+line) + "\n")
		}
	}
	if ins.focusShapes {
		s := m.ShapeAt(ins.shape)
		b.WriteString("\n")
		b.WriteString(green.Render(fmt.Sprintf("  pos (%.3g, %.3g, %.3g)", s.Pos.X, s.Pos.Y, s.Pos.Z)) + "\n")
		b.WriteString(yellow.Render(fmt.Sprintf("  envelope %.4g  margin %.4g", s.Envelope, s.Margin)) + "\n")
	}
	return b.String()
}

func (ins *Inspector) footer() string {
	return dim.Render("j/k move · enter shapes · h back · q quit")
}

// Run starts the inspector on the given world and blocks until the
// user quits.
func Run(w *world.World) error {
	_, err := tea.NewProgram(NewInspector(w)).Run()
	return err
}
