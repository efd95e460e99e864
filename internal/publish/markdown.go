package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"focus-tools/internal/focus"
	"focus-tools/internal/model"
	"focus-tools/internal/mutate"
	"focus-tools/internal/recurrence"
	"focus-tools/internal/store"
)

type RenderOptions struct {
	IncludeDeleted  bool
	IncludeSessions bool
}

func RenderTaskMarkdown(db *store.DB, taskID string, opt RenderOptions) (string, error) {
	if db == nil {
		return "", fmt.Errorf("missing db")
	}
	t, ok := db.FindTask(strings.TrimSpace(taskID))
	if !ok {
		return "", mutate.NotFoundError{Kind: "task", ID: taskID}
	}
	if t.IsDeleted() && !opt.IncludeDeleted {
		return "", fmt.Errorf("task deleted (use --include-deleted): %s", t.ID)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(t.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + t.ID)
	writeLn("- Status: " + string(t.Status))
	if p, ok := db.FindProject(t.ProjectID); ok {
		writeLn("- Project: " + strings.TrimSpace(p.Name) + " (" + p.ID + ")")
	}
	for _, f := range []struct{ label, value string }{
		{"Priority", string(t.Priority)},
		{"Importance", string(t.Importance)},
		{"Energy", string(t.EnergyType)},
		{"Target", t.TargetDate},
		{"Deadline", t.DeadlineDate},
		{"Deferred until", t.DeferredUntil},
	} {
		if f.value != "" {
			writeLn("- " + f.label + ": " + f.value)
		}
	}
	if t.WaitingOn != nil {
		line := "- Waiting on: " + t.WaitingOn.Who + " since " + t.WaitingOn.Since.UTC().Format(time.DateOnly)
		if n := strings.TrimSpace(t.WaitingOn.Note); n != "" {
			line += " (" + n + ")"
		}
		writeLn(line)
	}
	if t.Recurrence != nil {
		writeLn("- Repeats: " + recurrence.Describe(*t.Recurrence))
	}
	writeLn("- Created: " + t.CreatedAt.UTC().Format(time.RFC3339))
	writeLn("- Updated: " + t.UpdatedAt.UTC().Format(time.RFC3339))
	if t.CompletedAt != nil {
		writeLn("- Completed: " + t.CompletedAt.UTC().Format(time.RFC3339))
	}

	if len(t.Steps) > 0 {
		writeLn("")
		writeLn("## Steps")
		writeLn("")
		writeSteps(writeLn, t.Steps)
	}

	if notes := strings.TrimSpace(t.Notes); notes != "" {
		writeLn("")
		writeLn("## Notes")
		writeLn("")
		writeLn(notes)
	}

	if sessions := db.SessionsForTask(t.ID); opt.IncludeSessions && len(sessions) > 0 {
		writeLn("")
		writeLn("## Focus sessions")
		writeLn("")
		var total time.Duration
		for _, s := range sessions {
			total += s.Focused
			line := "- " + s.StartedAt.UTC().Format(time.RFC3339) + ": " + s.Focused.Truncate(time.Second).String()
			if s.InstanceDate != "" {
				line += " (occurrence " + s.InstanceDate + ")"
			}
			writeLn(line)
		}
		writeLn("")
		writeLn("Total: " + total.Truncate(time.Second).String())
	}

	return buf.String(), nil
}

// RenderQueueMarkdown renders the queue as a plan: today, then upcoming,
// each task with the steps its queue item covers.
func RenderQueueMarkdown(db *store.DB, title string) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + title)
	for _, section := range []focus.Section{focus.SectionToday, focus.SectionUpcoming} {
		writeLn("")
		writeLn("## " + strings.ToUpper(string(section[:1])) + string(section[1:]))
		writeLn("")
		n := 0
		for i, it := range db.Queue.Items {
			if focus.SectionOf(db.Queue, i) != section {
				continue
			}
			t, ok := focus.FindTask(db.Tasks, it.TaskID)
			if !ok {
				continue
			}
			n++
			writeLn(checkbox(it.Completed) + t.Title + " (" + t.ID + ")")
			for _, s := range focus.ScopeSteps(t, it) {
				writeLn("  " + checkbox(s.Completed) + s.Text)
			}
		}
		if n == 0 {
			writeLn("_Nothing queued._")
		}
	}
	return buf.String()
}

func writeSteps(writeLn func(string), steps []model.Step) {
	for _, s := range steps {
		line := checkbox(s.Completed) + s.Text
		if s.EstimatedMinutes != nil {
			line += fmt.Sprintf(" (~%dm)", *s.EstimatedMinutes)
		}
		writeLn(line)
	}
}

func checkbox(done bool) string {
	if done {
		return "- [x] "
	}
	return "- [ ] "
}
