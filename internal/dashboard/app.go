package dashboard

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// analysisSettledMsg carries the outcome of one submission back to the view
type analysisSettledMsg struct {
	result Result
}

// App is the bubbletea model for the dashboard. It binds State to the
// terminal: key presses become transitions and State is drawn by Styles.
type App struct {
	ctx       context.Context
	state     State
	input     textarea.Model
	spinner   spinner.Model
	submitter Submitter
	logger    *zap.Logger
	styles    Styles
	width     int
	height    int
}

// NewApp creates a dashboard that submits drafts through submitter
func NewApp(ctx context.Context, submitter Submitter, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(10)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ctx:       ctx,
		input:     ta,
		spinner:   sp,
		submitter: submitter,
		logger:    logger,
		styles:    DefaultStyles(),
		width:     80,
	}
}

// State returns a copy of the current view state
func (a *App) State() State {
	return a.state
}

// Init starts the cursor blinking
func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles terminal events and settled submissions
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.SetWidth(max(20, msg.Width-4))
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case analysisSettledMsg:
		a.settle(msg.result)
		return a, nil

	case spinner.TickMsg:
		if !a.state.Busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	// The notice is blocking: only dismissal is accepted while it is shown
	if a.state.Notice != nil {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			DismissNotice(&a.state)
		}
		return a, nil
	}

	if msg.Type == tea.KeyCtrlS {
		// Disabled while busy, like the submit button
		if a.state.Busy {
			return a, nil
		}
		return a, tea.Batch(a.Submit(), a.spinner.Tick)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	UpdateDraft(&a.state, a.input.Value())
	return a, cmd
}

// SetDraft replaces the draft, keeping the text area in sync
func (a *App) SetDraft(text string) {
	a.input.SetValue(text)
	UpdateDraft(&a.state, text)
}

// Submit marks the view busy and returns the command that performs the
// request. The payload is captured now, so edits made while the request is
// outstanding do not affect it.
func (a *App) Submit() tea.Cmd {
	payload := OnRequestStart(&a.state)
	a.logger.Debug("submitting draft", zap.Int("chars", len(payload)))

	ctx, submitter := a.ctx, a.submitter
	return func() tea.Msg {
		return analysisSettledMsg{result: submitter.Submit(ctx, payload)}
	}
}

func (a *App) settle(result Result) {
	Apply(&a.state, result)
	if result.Failure != nil {
		a.logger.Info("analysis failed", zap.Stringer("kind", result.Failure.Kind), zap.Error(result.Failure))
	}
}

// View renders the dashboard
func (a *App) View() string {
	frame := ""
	if a.state.Busy {
		frame = a.spinner.View()
	}
	return a.styles.Render(a.state, a.input.View(), frame, a.width)
}
