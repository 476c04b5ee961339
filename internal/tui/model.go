// Package tui renders the chat widget in a terminal.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"portfolio-chat/internal/types"
	"portfolio-chat/internal/widget"
)

// requestTimeout bounds one exchange with the proxy.
const requestTimeout = 60 * time.Second

type replyMsg struct {
	pending *widget.Pending
	reply   string
	err     error
}

type Model struct {
	widget *widget.Widget
	client widget.Chatter

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	ready  bool
	width  int
	height int
}

func New(client widget.Chatter, lang types.Language) Model {
	w := widget.New(client, lang)

	ti := textinput.New()
	ti.Placeholder = w.Strings().Placeholder
	ti.CharLimit = 2000
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		widget:  w,
		client:  client,
		input:   ti,
		spinner: s,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 9
		if vpHeight < 3 {
			vpHeight = 3
		}
		contentWidth := m.width - 2
		if contentWidth < 20 {
			contentWidth = 20
		}
		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.viewport.KeyMap = scrollKeys()
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.input.Width = contentWidth - 6
		m.renderer = newRenderer(contentWidth - 8)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if !m.widget.State().Open {
				return m, tea.Quit
			}
			m.widget.Close()
			return m, nil

		case "ctrl+l":
			m.widget.ToggleLanguage()
			m.input.Placeholder = m.widget.Strings().Placeholder
			m.refresh()
			return m, nil

		case "enter":
			if !m.widget.State().Open {
				// reopening drops any pending request, so input is live again
				m.widget.Open()
				m.refresh()
				return m, m.input.Focus()
			}
			p, ok := m.widget.Begin(m.input.Value())
			if !ok {
				return m, nil
			}
			m.input.Reset()
			m.input.Blur()
			m.refresh()
			return m, tea.Batch(m.send(p), m.spinner.Tick)
		}

	case replyMsg:
		m.widget.Resolve(msg.pending, msg.reply, msg.err)
		if !m.widget.Busy() {
			cmds = append(cmds, m.input.Focus())
		}
		m.refresh()

	case spinner.TickMsg:
		if m.widget.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			m.refresh()
			return m, cmd
		}
		return m, nil
	}

	if m.input.Focused() {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// scrollKeys leaves printable keys to the text input.
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}
}

func (m Model) send(p *widget.Pending) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		reply, err := client.Chat(ctx, p.Request)
		return replyMsg{pending: p, reply: reply, err: err}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	s := m.widget.Strings()
	st := m.widget.State()

	if !st.Open {
		launcher := titleStyle.Render(s.Title) + "\n" +
			hintStyle.Render("enter open · esc quit")
		return headerStyle.Width(m.viewport.Width).Render(launcher)
	}

	header := headerStyle.Width(m.viewport.Width).Render(
		titleStyle.Render(s.Title) + "  " + hintStyle.Render("["+s.ToggleLabel+"]"),
	)
	input := inputPanelStyle.Width(m.viewport.Width).Render(m.input.View())
	hints := hintStyle.Render("enter " + strings.ToLower(s.Send) + " · ctrl+l " + s.ToggleLabel + " · esc " + strings.ToLower(s.Close))

	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), input, hints)
}

// refresh re-renders the message log into the viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	s := m.widget.Strings()
	width := m.viewport.Width - 4

	var b strings.Builder
	for i, msg := range m.widget.State().Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case msg.Sender == widget.SenderUser:
			b.WriteString(userLabelStyle.Render(s.You) + "\n")
			b.WriteString(userBubbleStyle.Width(width).Render(msg.Text))
		case msg.Pending:
			b.WriteString(botLabelStyle.Render(s.Bot) + "\n")
			b.WriteString(botBubbleStyle.Width(width).Render(m.spinner.View() + " " + msg.Text))
		case msg.Error:
			b.WriteString(botLabelStyle.Render(s.Bot) + "\n")
			b.WriteString(errorBubbleStyle.Width(width).Render(msg.Text))
		default:
			b.WriteString(botLabelStyle.Render(s.Bot) + "\n")
			b.WriteString(botBubbleStyle.Width(width).Render(m.markdown(msg.Text)))
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m Model) markdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func newRenderer(width int) *glamour.TermRenderer {
	if width < 10 {
		width = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// Run starts the terminal chat against a proxy endpoint.
func Run(client widget.Chatter, lang types.Language) error {
	p := tea.NewProgram(New(client, lang), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
