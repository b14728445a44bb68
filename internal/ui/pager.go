package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

type PagerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Quit     key.Binding
}

func DefaultPagerKeyMap() PagerKeyMap {
	return PagerKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup/b", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", " ", "f"), key.WithHelp("pgdn/space", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),
	}
}

func (k PagerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PageDown, k.Top, k.Bottom, k.Quit}
}

func (k PagerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Top, k.Bottom, k.Quit},
	}
}

// RenderFunc produces the pager content for a terminal width.
type RenderFunc func(width int) (string, error)

// Pager shows rendered output in a scrollable viewport. Content is rendered
// again whenever the terminal width changes.
type Pager struct {
	title    string
	render   RenderFunc
	keys     PagerKeyMap
	viewport viewport.Model
	help     help.Model

	width int
	ready bool
	err   error
}

func NewPager(title string, render RenderFunc) *Pager {
	keys := DefaultPagerKeyMap()

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	vp.KeyMap.Up = keys.Up
	vp.KeyMap.Down = keys.Down
	vp.KeyMap.PageUp = keys.PageUp
	vp.KeyMap.PageDown = keys.PageDown

	return &Pager{
		title:    title,
		render:   render,
		keys:     keys,
		viewport: vp,
		help:     help.New(),
	}
}

// Err returns the render error that stopped the pager, if any.
func (p *Pager) Err() error {
	return p.err
}

func (p *Pager) Init() tea.Cmd {
	return nil
}

func (p *Pager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.help.Width = msg.Width

		// Measure with the same styles View uses.
		headerH := lipgloss.Height(p.headerView())
		footerH := lipgloss.Height(p.footerView())

		p.viewport.Width = msg.Width
		p.viewport.Height = max(msg.Height-headerH-footerH, 1)

		if !p.ready || msg.Width != p.width {
			content, err := p.render(msg.Width)
			if err != nil {
				p.err = fmt.Errorf("failed to render %s: %w", p.title, err)
				return p, tea.Quit
			}
			p.viewport.SetContent(content)
		}
		p.width = msg.Width
		p.ready = true
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Quit):
			return p, tea.Quit
		case key.Matches(msg, p.keys.Top):
			p.viewport.GotoTop()
			return p, nil
		case key.Matches(msg, p.keys.Bottom):
			p.viewport.GotoBottom()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *Pager) View() string {
	if !p.ready {
		return "\n  Rendering..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, p.headerView(), p.viewport.View(), p.footerView())
}

func (p *Pager) headerView() string {
	return TitleStyle.Render(p.title)
}

func (p *Pager) footerView() string {
	percent := SubtitleStyle.Render(fmt.Sprintf("%3.f%%", p.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, percent, HelpStyle.Render(p.help.View(p.keys)))
}

// RunPager runs p full screen until the user quits.
func RunPager(p *Pager, in io.Reader, out io.Writer) error {
	prog := tea.NewProgram(p,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("pager failed: %w", err)
	}
	return p.Err()
}

// IsTerminal reports whether w is a terminal the pager can take over.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
