package tui

import (
	"fmt"
	"strings"
	"time"

	"focus-tools/internal/config"
	"focus-tools/internal/focus"
	"focus-tools/internal/model"
	"focus-tools/internal/mutate"
	"focus-tools/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type view int

const (
	viewQueue view = iota
	viewFocus
	viewDetail
)

// Persister saves the database after each transition. store.Store satisfies it.
type Persister interface {
	Load() (*store.DB, error)
	Save(db *store.DB) error
	AppendEvent(ts time.Time, typ, entityID string, payload any) error
}

type Options struct {
	Config config.Config
	Energy model.EnergyLevel
	// Now defaults to time.Now.
	Now func() time.Time
	// StartFocus opens straight into the focus view when a session is active.
	StartFocus bool
}

type tickMsg time.Time

type appModel struct {
	store  Persister
	db     *store.DB
	cfg    config.Config
	energy model.EnergyLevel
	now    func() time.Time

	width  int
	height int

	view     view
	queue    list.Model
	detailID string

	keys     keyMap
	help     help.Model
	progress progress.Model

	status string
	err    error
}

func newAppModel(s Persister, db *store.DB, opts Options) appModel {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := appModel{
		store:    s,
		db:       db,
		cfg:      opts.Config,
		energy:   opts.Energy,
		now:      now,
		view:     viewQueue,
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(30)),
	}
	m.queue = newList("Focus queue", nil)
	m.refreshQueue()
	if db.Focus.Active && opts.StartFocus {
		m.view = viewFocus
	}
	return m
}

func (m appModel) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.queue.SetSize(max(msg.Width-4, 20), max(msg.Height-6, 6))
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		// Re-render so the elapsed timer advances.
		return m, tick()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.view {
		case viewFocus:
			return m.updateFocus(msg)
		case viewDetail:
			if key.Matches(msg, m.keys.Back) {
				m.view = viewQueue
				m.refreshQueue()
			}
			return m, nil
		default:
			if m.queue.FilterState() != list.Filtering {
				if next, cmd, ok := m.updateQueueKeys(msg); ok {
					return next, cmd
				}
			}
		}
	}

	if m.view == viewQueue {
		var cmd tea.Cmd
		m.queue, cmd = m.queue.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateQueueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Reload):
		m.reload()
		return m, nil, true
	case key.Matches(msg, m.keys.Open):
		if r, ok := m.queue.SelectedItem().(queueRow); ok {
			m.openDetail(r.task.ID)
		}
		return m, nil, true
	case key.Matches(msg, m.keys.Start):
		r, ok := m.queue.SelectedItem().(queueRow)
		if !ok {
			return m, nil, true
		}
		ref := r.itemID
		if ref == "" {
			ref = r.task.ID
		}
		m.apply("focus.start", r.task.ID, func(now time.Time) (mutate.FocusResult, error) {
			return mutate.StartFocus(m.db, ref, now, m.cfg.DayStartHour, m.cfg.Recurrence.RolloverScanDays)
		})
		if m.db.Focus.Active {
			m.view = viewFocus
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m appModel) updateFocus(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.db.Focus.Active {
		m.view = viewQueue
		m.refreshQueue()
		return m, nil
	}
	taskID := m.db.Focus.TaskID
	switch {
	case key.Matches(msg, m.keys.Pause):
		if m.db.Focus.Paused {
			m.apply("focus.resume", taskID, m.call(mutate.ResumeFocus))
		} else {
			m.apply("focus.pause", taskID, m.call(mutate.PauseFocus))
		}
	case key.Matches(msg, m.keys.Step):
		m.apply("focus.step", taskID, m.call(mutate.CompleteFocusStep))
	case key.Matches(msg, m.keys.Done):
		m.apply("focus.done", taskID, m.call(mutate.CompleteFocusedTask))
	case key.Matches(msg, m.keys.Exit):
		var res mutate.FocusResult
		m.apply("focus.exit", taskID, func(now time.Time) (mutate.FocusResult, error) {
			r, err := mutate.ExitFocus(m.db, focus.DefaultReturnRoute, now)
			res = r
			return r, err
		})
		if res.Exit == nil {
			return m, nil
		}
		m.status = fmt.Sprintf("focused %s", res.Exit.Focused.Truncate(time.Second))
		if res.Exit.Route == focus.RouteTaskDetail {
			m.openDetail(taskID)
		} else {
			m.view = viewQueue
			m.refreshQueue()
		}
	}
	return m, nil
}

func (m appModel) call(fn func(*store.DB, time.Time) (mutate.FocusResult, error)) func(time.Time) (mutate.FocusResult, error) {
	return func(now time.Time) (mutate.FocusResult, error) { return fn(m.db, now) }
}

// apply runs one session transition and persists it. Errors are shown in
// the footer; the database is saved only when the transition succeeds.
func (m *appModel) apply(typ, entityID string, fn func(time.Time) (mutate.FocusResult, error)) {
	now := m.now()
	res, err := fn(now)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = ""
	if err := m.store.Save(m.db); err != nil {
		m.err = err
		return
	}
	_ = m.store.AppendEvent(now, typ, entityID, res.EventPayload)
}

func (m *appModel) openDetail(taskID string) {
	m.detailID = taskID
	m.view = viewDetail
}

func (m *appModel) refreshQueue() {
	curID := ""
	if r, ok := m.queue.SelectedItem().(queueRow); ok {
		curID = r.task.ID
	}
	m.queue.SetItems(queueRows(m.db, m.cfg, m.energy, m.now()))
	for i, it := range m.queue.Items() {
		if r, ok := it.(queueRow); ok && r.task.ID == curID {
			m.queue.Select(i)
			break
		}
	}
}

// reload picks up changes made by CLI commands in another terminal.
func (m *appModel) reload() {
	db, err := m.store.Load()
	if err != nil {
		m.err = err
		return
	}
	m.db = db
	m.err = nil
	m.refreshQueue()
}

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewFocus:
		body = m.viewFocus()
	case viewDetail:
		body = m.viewDetail()
	default:
		body = m.queue.View()
	}

	footer := []string{m.help.View(m.helpKeys())}
	if m.err != nil {
		footer = append([]string{styleError.Render(m.err.Error())}, footer...)
	} else if m.status != "" {
		footer = append([]string{styleMuted().Render(m.status)}, footer...)
	}
	return styleFrame.Render(body + "\n\n" + strings.Join(footer, "\n"))
}

func (m appModel) contentWidth() int {
	if m.width <= 0 {
		return 76
	}
	return max(m.width-4, 20)
}

func (m appModel) viewFocus() string {
	st := m.db.Focus
	if !st.Active {
		return styleMuted().Render("No focus session.")
	}
	t, ok := m.db.FindTask(st.TaskID)
	if !ok {
		return styleError.Render("Focused task is missing.")
	}
	w := m.contentWidth()
	phase := "focusing"
	if st.Paused {
		phase = "paused"
	}
	elapsed := focus.Elapsed(st, m.now()).Truncate(time.Second)

	lines := []string{
		styleTitle.Render(ansi.Truncate(t.Title, w, "…")),
		styleMuted().Render(phase) + styleTimer.Render(clock(elapsed)),
	}
	if st.InstanceDate != "" {
		lines = append(lines, styleMuted().Render("occurrence "+st.InstanceDate))
	}

	steps := focus.SessionSteps(st, m.db.Queue, *t)
	if len(steps) > 0 {
		done := 0
		for _, s := range steps {
			if s.Completed {
				done++
			}
		}
		lines = append(lines, "", m.progress.ViewAs(float64(done)/float64(len(steps)))+" "+stepProgress(steps), "")
		for _, s := range steps {
			mark := "[ ]"
			if s.Completed {
				mark = "[x]"
			}
			line := mark + " " + ansi.Truncate(s.Text, w-4, "…")
			switch {
			case s.ID == st.CurrentStepID:
				line = styleSelected.Render(line)
			case s.Completed:
				line = styleMuted().Render(line)
			}
			lines = append(lines, line)
		}
	} else if t.Status == model.StatusComplete {
		lines = append(lines, "", styleHeading.Render("Done."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m appModel) viewDetail() string {
	t, ok := m.db.FindTask(m.detailID)
	if !ok {
		return styleError.Render((mutate.NotFoundError{Kind: "task", ID: m.detailID}).Error())
	}
	w := m.contentWidth()
	lines := []string{
		styleTitle.Render(ansi.Truncate(t.Title, w, "…")),
		styleMuted().Render(string(t.Status) + "  " + t.ID),
	}
	if len(t.Steps) > 0 {
		lines = append(lines, styleMuted().Render(stepProgress(t.Steps)))
	}
	if n := renderMarkdown(t.Notes, w); n != "" {
		lines = append(lines, "", n)
	}
	if sessions := m.db.SessionsForTask(t.ID); len(sessions) > 0 {
		var total time.Duration
		for _, s := range sessions {
			total += s.Focused
		}
		lines = append(lines, "", styleHeading.Render(fmt.Sprintf("%d sessions, %s focused", len(sessions), total.Truncate(time.Second))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func clock(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	mnt := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mnt, s)
	}
	return fmt.Sprintf("%02d:%02d", mnt, s)
}
