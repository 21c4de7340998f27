package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/concurbench/internal/config"
	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/metrics"
	"github.com/agbru/concurbench/internal/operation"
	"github.com/agbru/concurbench/internal/orchestration"
	"github.com/agbru/concurbench/internal/sysmon"
)

// errSessionCanceled marks strategies interrupted by the cancel key.
var errSessionCanceled = errors.New("canceled from the dashboard")

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	cancel     context.CancelFunc
	generation uint64
	running    bool
	lastKinds  []harness.Kind
	exitCode   int
	lastErr    error
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// leftWidth returns the width allocated to the strategies and lanes column.
func (l LayoutManager) leftWidth() int {
	return l.width * LeftPanelWidthPercent / 100
}

// rightWidth returns the width allocated to the metrics and chart column.
func (l LayoutManager) rightWidth() int {
	return l.width - l.leftWidth()
}

// Layout constants for the TUI dashboard.
const (
	LeftPanelWidthPercent = 62
	tickInterval          = 250 * time.Millisecond
)

// samplers reads the runtime and process statistics shown on the dashboard.
type samplers struct {
	runtime *metrics.RuntimeSampler
	process *sysmon.Sampler
}

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header     HeaderModel
	strategies StrategiesModel
	lanes      LanesModel
	metrics    MetricsModel
	chart      ChartModel
	footer     FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	harness   *harness.Harness
	config    config.AppConfig
	ops       []operation.SlowOperation
	samplers  samplers
	ref       *programRef
	paused    bool
	now       func() time.Time
}

// NewModel creates a new TUI model running strategies on h.
func NewModel(parentCtx context.Context, h *harness.Harness, cfg config.AppConfig, version string) Model {
	ops := cfg.Operations()
	keys := DefaultKeyMap()
	return Model{
		header:         NewHeaderModel(version),
		strategies:     NewStrategiesModel(),
		lanes:          NewLanesModel(ops),
		metrics:        NewMetricsModel(),
		chart:          NewChartModel(),
		footer:         NewFooterModel(keys),
		keymap:         keys,
		ExecutionState: ExecutionState{exitCode: apperrors.ExitSuccess},
		parentCtx:      parentCtx,
		harness:        h,
		config:         cfg,
		ops:            ops,
		samplers:       samplers{runtime: metrics.NewRuntimeSampler(), process: sysmon.NewSampler()},
		ref:            &programRef{},
		now:            time.Now,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.sampleCmd(),
		watchContextCmd(m.parentCtx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case RunStartedMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.lanes.Start(msg.Info)
		m.strategies.SetRunning(msg.Info.Strategy)
		m.strategies.Select(msg.Info.Strategy)
		m.header.SetRun(msg.Info.Strategy.String(), msg.Info.RunID)
		return m, nil

	case OperationStartedMsg:
		if msg.Generation == m.generation {
			m.lanes.OperationStarted(msg.Event)
		}
		return m, nil

	case OperationFinishedMsg:
		if msg.Generation == m.generation {
			m.lanes.OperationFinished(msg.Event)
		}
		return m, nil

	case RunFinishedMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.lanes.Finish()
		m.strategies.SetResult(msg.Info.Strategy, msg.Result, msg.Err)
		return m, nil

	case ProgressMsg:
		if msg.Generation == m.generation {
			m.metrics.UpdateProgress(msg.AverageProgress, msg.ETA)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		if msg.Generation == m.generation {
			m.strategies.SetRanking(msg.Results)
		}
		return m, nil

	case FinalResultMsg:
		if msg.Generation == m.generation {
			m.lastErr = msg.Result.Err
		}
		return m, nil

	case ErrorMsg:
		if msg.Generation == m.generation {
			m.lastErr = msg.Err
			m.footer.SetError(true)
		}
		return m, nil

	case SessionCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a canceled session
		}
		m.running = false
		m.exitCode = msg.ExitCode
		m.header.SetDone(m.now())
		m.footer.SetRunning(false)
		m.footer.SetError(msg.ExitCode != apperrors.ExitSuccess)
		return m, nil

	case TickMsg:
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(m.sampleCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		m.chart.UpdateSysStats(msg)
		return m, nil

	case ContextCancelledMsg:
		m.cancelSession()
		m.exitCode = apperrors.ExitErrorCanceled
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancelSession()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleFullHelp()
		return m, nil

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Cancel):
		if m.running {
			m.cancelSession()
			m.strategies.CancelRunning(errSessionCanceled)
			m.lanes.Finish()
			m.header.SetDone(m.now())
			m.footer.SetRunning(false)
			m.footer.SetError(true)
			m.exitCode = apperrors.ExitErrorCanceled
		}
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		if !m.running {
			m.strategies.Up()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		if !m.running {
			m.strategies.Down()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Run):
		if m.running {
			return m, nil
		}
		if kind, err := harness.ParseKind(msg.String()); err == nil {
			m.strategies.Select(kind)
		}
		return m.startSession([]harness.Kind{m.strategies.Selected()})

	case key.Matches(msg, m.keymap.All):
		if m.running {
			return m, nil
		}
		return m.startSession(harness.Kinds())

	case key.Matches(msg, m.keymap.Rerun):
		if m.running || len(m.lastKinds) == 0 {
			return m, nil
		}
		return m.startSession(m.lastKinds)
	}

	return m, nil
}

// startSession runs kinds one after another on a fresh context.
func (m Model) startSession(kinds []harness.Kind) (tea.Model, tea.Cmd) {
	m.generation++
	ctx, cancel := context.WithCancel(m.parentCtx)
	m.cancel = cancel
	m.running = true
	m.lastKinds = kinds
	m.lastErr = nil

	m.strategies.Reset(kinds)
	m.metrics.MarkBaseline()
	m.header.Start(m.now())
	m.footer.SetRunning(true)
	m.footer.SetError(false)

	return m, runSessionCmd(ctx, m.ref, m.harness, kinds, m.config, m.ops, m.generation)
}

func (m *Model) cancelSession() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.running {
		m.running = false
		// Invalidate events still in flight from the canceled session.
		m.generation++
	}
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	now := m.now()

	left := panelStyle.Width(max(m.leftWidth()-2, 0)).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.strategies.View(!m.running),
			"",
			m.lanes.View(now),
		))
	right := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	sections := []string{m.header.View(now), body}
	if m.lastErr != nil && !m.running {
		sections = append(sections, errorStyle.Render(truncateString(fmt.Sprintf("  Error: %v", m.lastErr), m.width)))
	}
	sections = append(sections, m.footer.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.strategies.SetWidth(m.leftWidth() - 4)
	m.lanes.SetWidth(m.leftWidth() - 4)
	m.metrics.SetSize(m.rightWidth(), 0)
	m.chart.SetSize(m.rightWidth())
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code of
// the last session.
func Run(ctx context.Context, h *harness.Harness, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme selected by ui.InitTheme.
	initTUIStyles()

	model := NewModel(ctx, h, cfg, version)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if m, ok := finalModel.(Model); ok {
		m.cancelSession()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return apperrors.ExitErrorGeneric
		}
		if ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		return m.exitCode
	}
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runSessionCmd returns a tea.Cmd that runs kinds through the orchestration
// layer, forwarding lifecycle events to the dashboard.
func runSessionCmd(ctx context.Context, ref *programRef, h *harness.Harness, kinds []harness.Kind, cfg config.AppConfig, ops []operation.SlowOperation, gen uint64) tea.Cmd {
	return func() tea.Msg {
		runner := h.With(harness.WithObserver(&TUIObserver{ref: ref, gen: gen}))
		reporter := &TUIProgressReporter{ref: ref, gen: gen}
		presenter := &TUIResultPresenter{ref: ref, gen: gen}

		results := orchestration.ExecuteStrategies(ctx, runner, kinds, cfg.RunOptions(), ops, reporter, io.Discard)
		presOpts := orchestration.PresentationOptions{Verbose: cfg.Verbose, ShowWorkers: cfg.ShowWorkers}

		var exitCode int
		if len(results) == 1 {
			res := results[0]
			if res.Err != nil {
				exitCode = presenter.HandleError(res.Err, res.Duration, io.Discard)
			} else {
				presenter.PresentResult(res, presOpts, io.Discard)
			}
		} else {
			exitCode = orchestration.AnalyzeComparisonResults(results, presOpts, presenter, presenter, io.Discard)
		}
		return SessionCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleCmd reads runtime and process statistics off the UI goroutine.
func (m Model) sampleCmd() tea.Cmd {
	rs, ps := m.samplers.runtime, m.samplers.process
	return tea.Batch(
		func() tea.Msg { return MemStatsMsg{RuntimeSnapshot: rs.Snapshot()} },
		func() tea.Msg { return SysStatsMsg{Stats: ps.Sample()} },
	)
}

// watchContextCmd waits for cancellation of the parent context and sends a
// message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
