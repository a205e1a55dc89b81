// Package tui provides the interactive Bubble Tea dashboard for cardburn.
package tui

import (
	"time"

	"cardburn/internal/cli"
	"cardburn/internal/engine"
	"cardburn/internal/model"
	"cardburn/internal/pipeline"
	"cardburn/internal/store"
	"cardburn/internal/tui/components"
	"cardburn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// PlanDoneMsg is sent when a plan computation finishes.
type PlanDoneMsg struct {
	Outcome  *pipeline.Outcome
	Err      error
	PlanTime time.Duration
}

// budgetStep is the increment for interactive budget adjustment.
const budgetStep = 25.0

// App is the root Bubble Tea model.
type App struct {
	// Inputs
	accounts  []model.Account
	cardsFile string
	budget    float64
	policy    engine.Policy
	maxMonths int
	start     time.Time
	currency  string
	useCache  bool

	// Current plan
	outcome  *pipeline.Outcome
	planErr  error
	planTime time.Duration
	loaded   bool

	// UI state
	width       int
	height      int
	activeTab   int
	showHelp    bool
	computing   bool
	schedCursor int // selected card on the schedule tab
	schedScroll int
	monthScroll int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 160

	chromeOverhead = 6 // tab bar + status bar + margins
)

// Options configures a new TUI app.
type Options struct {
	Accounts  []model.Account
	CardsFile string
	Budget    float64
	Policy    engine.Policy
	MaxMonths int
	Start     time.Time
	Currency  string
	UseCache  bool
	NeedSetup bool
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		accounts:  opts.Accounts,
		cardsFile: opts.CardsFile,
		budget:    opts.Budget,
		policy:    opts.Policy,
		maxMonths: opts.MaxMonths,
		start:     opts.Start,
		currency:  opts.Currency,
		useCache:  opts.UseCache,
		needSetup: opts.NeedSetup,
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.computeCmd(),
		a.spinner.Tick,
	}
	return tea.Batch(cmds...)
}

// computeCmd plans in the background so keystrokes stay responsive.
func (a App) computeCmd() tea.Cmd {
	req := pipeline.Request{
		Accounts:  a.accounts,
		Budget:    a.budget,
		Policy:    a.policy,
		MaxMonths: a.maxMonths,
		Start:     a.start,
	}
	useCache := a.useCache

	return func() tea.Msg {
		began := time.Now()

		var (
			outcome *pipeline.Outcome
			err     error
		)
		if useCache {
			cache, openErr := store.Open(pipeline.CachePath())
			if openErr == nil {
				defer func() { _ = cache.Close() }()
				outcome, err = pipeline.RunWithCache(req, cache)
				return PlanDoneMsg{Outcome: outcome, Err: err, PlanTime: time.Since(began)}
			}
		}

		outcome, err = pipeline.Run(req)
		return PlanDoneMsg{Outcome: outcome, Err: err, PlanTime: time.Since(began)}
	}
}

func (a *App) recompute() tea.Cmd {
	a.computing = true
	return tea.Batch(a.computeCmd(), a.spinner.Tick)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit

		case "+", "=":
			a.budget += budgetStep
			return a, a.recompute()

		case "-", "_":
			next := a.budget - budgetStep
			if next < budgetStep {
				next = budgetStep
			}
			if next != a.budget {
				a.budget = next
				return a, a.recompute()
			}
			return a, nil

		case "p":
			if a.policy == engine.PolicyAvalanche {
				a.policy = engine.PolicyLegacy
			} else {
				a.policy = engine.PolicyAvalanche
			}
			return a, a.recompute()

		case "o":
			a.activeTab = 0
		case "s":
			a.activeTab = 1
		case "m":
			a.activeTab = 2
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)

		case "j", "down":
			a.moveCursor(1)
		case "k", "up":
			a.moveCursor(-1)
		case "J", "ctrl+d":
			a.scrollBy(a.halfPage())
		case "K", "ctrl+u":
			a.scrollBy(-a.halfPage())
		case "g":
			a.schedScroll = 0
			a.monthScroll = 0
		}
		return a, nil

	case PlanDoneMsg:
		a.computing = false
		a.loaded = true
		a.planErr = msg.Err
		a.planTime = msg.PlanTime
		if msg.Err == nil {
			a.outcome = msg.Outcome
			a.clampCursor()
		}

		// Activate first-run setup after the initial plan lands
		if a.needSetup && a.setupForm == nil {
			a.setupForm = newSetupForm(a.cardsFile, a.budget, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if a.computing || !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		recompute := a.applySetup()
		a.needSetup = false
		a.setupForm = nil
		if recompute {
			return a, a.recompute()
		}
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case 1:
		if a.outcome == nil {
			return
		}
		a.schedCursor += delta
		a.schedScroll = 0
		a.clampCursor()
	case 2:
		a.monthScroll += delta
		if a.monthScroll < 0 {
			a.monthScroll = 0
		}
	}
}

func (a *App) scrollBy(delta int) {
	switch a.activeTab {
	case 1:
		a.schedScroll += delta
		if a.schedScroll < 0 {
			a.schedScroll = 0
		}
	case 2:
		a.monthScroll += delta
		if a.monthScroll < 0 {
			a.monthScroll = 0
		}
	}
}

func (a App) halfPage() int {
	h := (a.height - chromeOverhead) / 2
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) clampCursor() {
	if a.outcome == nil {
		a.schedCursor = 0
		return
	}
	n := len(a.outcome.Result.Schedules)
	if a.schedCursor >= n {
		a.schedCursor = n - 1
	}
	if a.schedCursor < 0 {
		a.schedCursor = 0
	}
}

func (a App) contentWidth() int {
	w := a.width
	if w > maxContentWidth {
		w = maxContentWidth
	}
	return w
}

// View implements tea.Model.
func (a App) View() string {
	if a.width > 0 && a.width < minTerminalWidth {
		return "\n  Terminal too narrow (need " +
			lipgloss.NewStyle().Bold(true).Render("70+") + " columns)\n"
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if !a.loaded {
		return "\n  " + a.spinner.View() + " Computing payoff plan...\n"
	}

	if a.planErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(theme.Active.Red)
		return "\n" + errStyle.Render("  Plan failed: "+a.planErr.Error()) +
			"\n\n  Adjust the budget with + and -, or press q to quit.\n" +
			"\n" + components.RenderStatusBar(a.contentWidth(), cli.FormatMoney(a.currency, a.budget))
	}

	if a.showHelp {
		return a.renderHelp()
	}

	var body string
	switch a.activeTab {
	case 0:
		body = a.renderOverview()
	case 1:
		body = a.renderSchedule()
	case 2:
		body = a.renderMonthly()
	}

	header := components.RenderTabBar(a.activeTab, a.contentWidth())
	if a.computing {
		header += "  " + a.spinner.View()
	}

	status := components.RenderStatusBar(a.contentWidth(), cli.FormatMoney(a.currency, a.budget))

	return header + "\n\n" + body + "\n" + status
}

func (a App) renderHelp() string {
	t := theme.Active
	key := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	txt := lipgloss.NewStyle().Foreground(t.TextMuted)

	lines := []struct{ k, desc string }{
		{"o / s / m", "switch tabs (overview, schedule, monthly)"},
		{"left / right", "cycle tabs"},
		{"+ / -", "raise or lower the monthly budget"},
		{"p", "toggle avalanche / legacy allocation"},
		{"j / k", "select card or scroll"},
		{"J / K", "scroll by half a page"},
		{"g", "jump to the top"},
		{"q", "quit"},
	}

	body := "\n"
	for _, l := range lines {
		body += "  " + key.Render(l.k) + "  " + txt.Render(l.desc) + "\n"
	}
	body += "\n" + txt.Render("  Press any key to close")
	return body
}
