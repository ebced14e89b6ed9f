package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/faegents/openclaw/internal/ui"
	"github.com/faegents/openclaw/internal/workspace"
)

// Fetch loads a fresh workspace snapshot.
type Fetch func(ctx context.Context) workspace.State

// WatchOptions configures the live view.
type WatchOptions struct {
	Interval time.Duration
	Layout   Options
	Styles   ui.Styles
	Log      *zap.Logger
	Now      func() time.Time
}

// DefaultInterval is the refresh interval when none is given.
const DefaultInterval = 30 * time.Second

type tickMsg time.Time

type stateMsg struct {
	state workspace.State
}

type watchModel struct {
	ctx   context.Context
	fetch Fetch
	opts  WatchOptions

	state     workspace.State
	elapsed   time.Duration
	tickEvery time.Duration
	fetching  bool
	refreshes int

	width   int
	height  int
	spinner spinner.Model
}

func newWatchModel(ctx context.Context, initial workspace.State, fetch Fetch, opts WatchOptions) watchModel {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Styles.OK

	return watchModel{
		ctx:       ctx,
		fetch:     fetch,
		opts:      opts,
		state:     initial,
		tickEvery: time.Second,
		width:     ui.TerminalWidth(100),
		height:    30,
		spinner:   sp,
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.tickEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) refresh() tea.Cmd {
	ctx, fetch := m.ctx, m.fetch
	return func() tea.Msg {
		return stateMsg{state: fetch(ctx)}
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m.startRefresh(nil)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.elapsed += m.tickEvery
		if m.elapsed >= m.opts.Interval {
			return m.startRefresh(m.tick())
		}
		return m, m.tick()

	case stateMsg:
		m.state = msg.state
		m.fetching = false
		m.refreshes++
		m.opts.Log.Debug("dashboard refreshed", zap.Int("refreshes", m.refreshes))

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// startRefresh begins a fetch unless one is in flight. The elapsed counter
// restarts either way.
func (m watchModel) startRefresh(next tea.Cmd) (tea.Model, tea.Cmd) {
	m.elapsed = 0
	if m.fetching {
		return m, next
	}
	m.fetching = true
	return m, tea.Batch(next, m.refresh(), m.spinner.Tick)
}

func (m watchModel) View() string {
	layout := m.opts.Layout
	layout.Now = m.opts.Now()
	region := Live(m.state, layout)
	body := region.Render(m.opts.Styles, m.width, max(m.height-1, HeaderSize))
	return body + "\n" + m.opts.Styles.Footer.Render(m.status())
}

func (m watchModel) status() string {
	if m.fetching {
		return m.spinner.View() + " refreshing workspace · q to quit"
	}
	left := m.opts.Interval - m.elapsed
	if left < 0 {
		left = 0
	}
	return fmt.Sprintf("next refresh in %ds · r to refresh · q to quit", int(left.Seconds()))
}

// Watch runs the live dashboard until the user quits or ctx is cancelled.
// It owns the terminal (alternate screen) while running. Quitting is not an
// error.
func Watch(ctx context.Context, initial workspace.State, fetch Fetch, opts WatchOptions) error {
	m := newWatchModel(ctx, initial, fetch, opts)
	m.opts.Log.Info("live dashboard started", zap.Duration("interval", m.opts.Interval))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	m.opts.Log.Info("live dashboard stopped")
	if err == nil || errors.Is(err, tea.ErrInterrupted) || ctx.Err() != nil {
		return nil
	}
	return err
}
