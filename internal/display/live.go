package display

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/input"
	"github.com/hammamikhairi/stockpile/internal/recalc"
)

var promptStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#94a3b8"))

// Submitter queues a recalculation. *recalc.Recalculator satisfies it.
type Submitter interface {
	Submit(req recalc.Request) (uint64, error)
}

// Live is the interactive planner: the user describes the household in
// a prompt and the plan below it follows as they type.
type Live struct {
	submitter  Submitter
	updates    <-chan recalc.Update
	parser     *input.Parser
	categories []string
}

// NewLive creates the interactive planner. Updates should come from a
// subscription on the same recalculator the submitter feeds.
func NewLive(submitter Submitter, updates <-chan recalc.Update, parser *input.Parser, categories []string) *Live {
	return &Live{
		submitter:  submitter,
		updates:    updates,
		parser:     parser,
		categories: categories,
	}
}

// Run starts the Bubble Tea event loop. Blocks until quit.
func (l *Live) Run() error {
	_, err := tea.NewProgram(l.model(), tea.WithAltScreen()).Run()
	return err
}

func (l *Live) model() liveModel {
	ti := textinput.New()
	ti.Prompt = "household> "
	ti.PromptStyle = promptStyle
	ti.Placeholder = "2 adults, 1 child and a dog for 3 weeks"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	return liveModel{
		live:   l,
		input:  ti,
		status: Hint("type a household, esc to quit"),
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type liveModel struct {
	live   *Live
	input  textinput.Model
	last   string
	plan   *domain.Plan
	seq    uint64
	status string
}

type updateMsg recalc.Update

// closedMsg reports that the update channel was closed.
type closedMsg struct{}

func waitForUpdate(ch <-chan recalc.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return updateMsg(u)
	}
}

func (m liveModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForUpdate(m.live.updates))
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		prompt := len(m.input.Prompt)
		if msg.Width > prompt {
			m.input.Width = msg.Width - prompt - 1
		}
		return m, nil

	case updateMsg:
		u := recalc.Update(msg)
		if u.Seq >= m.seq {
			m.seq = u.Seq
			if u.Err != nil {
				m.status = Urgent(u.Err.Error())
			} else {
				m.plan = u.Plan
				m.status = ""
			}
		}
		return m, waitForUpdate(m.live.updates)

	case closedMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputChanged()
	return m, cmd
}

// inputChanged submits the current text when it parses to a household.
func (m *liveModel) inputChanged() {
	text := strings.TrimSpace(m.input.Value())
	if text == m.last {
		return
	}
	m.last = text
	if text == "" {
		return
	}

	h, err := m.live.parser.Parse(text)
	if err != nil {
		m.status = Hint(err.Error())
		return
	}
	if _, err := m.live.submitter.Submit(recalc.Request{Household: h, Categories: m.live.categories}); err != nil {
		m.status = Urgent(err.Error())
		return
	}
	m.status = Hint("calculating…")
}

func (m liveModel) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n\n")
	}
	if m.plan != nil {
		b.WriteString(RenderPlan(m.plan))
	}
	return b.String()
}
