package tui

import (
	"fmt"
	"strings"
	"time"

	"focus-tools/internal/config"
	"focus-tools/internal/focus"
	"focus-tools/internal/health"
	"focus-tools/internal/model"
	"focus-tools/internal/priority"
	"focus-tools/internal/recurrence"
	"focus-tools/internal/store"

	"github.com/charmbracelet/bubbles/list"
)

// queueRow is one line of the queue screen: a queued task or a routine
// whose occurrence is open today.
type queueRow struct {
	task     model.Task
	itemID   string
	section  string
	date     string
	tier     priority.Tier
	health   health.Status
	progress string
}

func (r queueRow) FilterValue() string { return r.task.Title }
func (r queueRow) Title() string       { return r.task.Title }

func (r queueRow) Description() string {
	parts := []string{r.section}
	if r.tier != "" {
		parts = append(parts, tierStyle(string(r.tier)).Render(string(r.tier)))
	}
	if r.health != "" && r.health != health.StatusHealthy {
		parts = append(parts, healthStyle(string(r.health)).Render(string(r.health)))
	}
	if r.date != "" {
		parts = append(parts, r.date)
	}
	if r.progress != "" {
		parts = append(parts, r.progress)
	}
	return strings.Join(parts, "  ")
}

func stepProgress(steps []model.Step) string {
	if len(steps) == 0 {
		return ""
	}
	done := 0
	for _, s := range steps {
		if s.Completed {
			done++
		}
	}
	return fmt.Sprintf("%d/%d steps", done, len(steps))
}

// queueRows lists the today section, then routines due today, then upcoming.
func queueRows(db *store.DB, cfg config.Config, energy model.EnergyLevel, now time.Time) []list.Item {
	dsh := cfg.DayStartHour
	var today, upcoming, routines []list.Item
	for _, v := range focus.View(db.Queue, db.Tasks, energy, now, dsh, cfg.Priority) {
		if v.Item.Completed {
			continue
		}
		r := queueRow{
			task:     v.Task,
			itemID:   v.Item.ID,
			section:  string(v.Section),
			tier:     v.Priority.Tier,
			progress: stepProgress(focus.ScopeSteps(v.Task, v.Item)),
		}
		if health.IsClassifiable(v.Task) {
			r.health = health.ComputeHealthStatus(v.Task, now, dsh, cfg.Health).Status
		}
		if v.Section == focus.SectionToday {
			today = append(today, r)
		} else {
			upcoming = append(upcoming, r)
		}
	}
	for _, t := range db.LiveTasks() {
		if !t.IsRecurring() {
			continue
		}
		date, ok := recurrence.ActiveOccurrenceDate(t, now, dsh, cfg.Recurrence.RolloverScanDays)
		if !ok {
			continue
		}
		r := queueRow{task: t, section: "routine", date: date, progress: stepProgress(t.Steps)}
		if inst, ok := recurrence.FindInstance(t, date); ok {
			r.progress = stepProgress(inst.Steps())
		}
		routines = append(routines, r)
	}
	out := append(today, routines...)
	return append(out, upcoming...)
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// The footer is ours, so keep list chrome minimal.
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("task", "tasks")
	// ESC is "back", never quit.
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	return l
}
