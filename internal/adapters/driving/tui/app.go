package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

// exchange is one question/answer pair in the chat transcript.
type exchange struct {
	question string
	answer   *domain.Answer
	err      error
}

// answerReceived carries a query result back to the model.
type answerReceived struct {
	question string
	answer   *domain.Answer
	err      error
}

// App is the chat TUI, following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *Styles

	input      textinput.Model
	transcript viewport.Model
	spin       spinner.Model

	exchanges []exchange
	waiting   bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat TUI with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: DefaultStyles(),
		input:  input,
		spin:   spin,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("docqa - Document Q&A"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return a, tea.Quit
		case "enter":
			question := strings.TrimSpace(a.input.Value())
			if question == "" || a.waiting {
				return a, nil
			}
			a.input.Reset()
			a.waiting = true
			return a, tea.Batch(a.spin.Tick, a.ask(question))
		}

	case answerReceived:
		a.waiting = false
		a.exchanges = append(a.exchanges, exchange{
			question: msg.question,
			answer:   msg.answer,
			err:      msg.err,
		})
		a.transcript.SetContent(a.renderTranscript())
		a.transcript.GotoBottom()
		return a, nil

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	var inputCmd, vpCmd tea.Cmd
	a.input, inputCmd = a.input.Update(msg)
	a.transcript, vpCmd = a.transcript.Update(msg)
	return a, tea.Batch(inputCmd, vpCmd)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("docqa"))
	b.WriteString("\n")
	b.WriteString(a.transcript.View())
	b.WriteString("\n")
	if a.waiting {
		b.WriteString(a.styles.Muted.Render(a.spin.View() + " thinking..."))
		b.WriteString("\n")
	}
	b.WriteString(a.styles.InputBorder.Width(a.width - 2).Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("enter: ask • esc: quit"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Exchanges returns the chat transcript (for testing).
func (a *App) Exchanges() []exchange {
	return a.exchanges
}

// Waiting reports whether a query is in flight (for testing).
func (a *App) Waiting() bool {
	return a.waiting
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	// Header, spinner row, input box, and hint take up the rest.
	transcriptHeight := height - 7
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	a.transcript = viewport.New(width, transcriptHeight)
	a.transcript.SetContent(a.renderTranscript())
	a.input.Width = width - 6
}

// ask queries the knowledge base asynchronously.
func (a *App) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ports.Query.Query(a.ctx, question)
		return answerReceived{question: question, answer: answer, err: err}
	}
}

// renderTranscript renders all exchanges for the viewport.
func (a *App) renderTranscript() string {
	if len(a.exchanges) == 0 {
		return a.styles.Muted.Render("Ask a question about your documents.")
	}

	var b strings.Builder
	for i := range a.exchanges {
		e := &a.exchanges[i]
		b.WriteString(a.styles.Question.Render("You: " + e.question))
		b.WriteString("\n")
		switch {
		case e.err != nil:
			b.WriteString(a.styles.Error.Render("Error: " + e.err.Error()))
		case e.answer != nil:
			b.WriteString(a.styles.Answer.Render(e.answer.Text))
			if e.answer.ContextUsed {
				b.WriteString("\n")
				b.WriteString(a.styles.Muted.Render(
					fmt.Sprintf("(%d context chunks)", e.answer.ChunkCount)))
			}
		}
		b.WriteString("\n\n")
	}
	return b.String()
}
