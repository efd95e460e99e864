// Package health classifies active tasks as healthy, at risk or critical
// based on deadlines, blockers and staleness.
package health

import (
	"fmt"
	"time"

	"focus-tools/internal/config"
	"focus-tools/internal/dates"
	"focus-tools/internal/model"
)

type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusAtRisk   Status = "at_risk"
	StatusCritical Status = "critical"
)

type Reason string

const (
	ReasonNone         Reason = ""
	ReasonOverdue      Reason = "overdue"
	ReasonWaitingStale Reason = "waiting_stale"
	ReasonDeadlineSoon Reason = "deadline_soon"
	ReasonStale        Reason = "stale"
)

type Result struct {
	Status Status `json:"status" yaml:"status"`
	Reason Reason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// ComputeHealthStatus applies the rules in order; the first match wins.
// The caller is expected to pass only tasks for which IsClassifiable is true.
func ComputeHealthStatus(task model.Task, now time.Time, dayStartHour int, cfg config.Health) Result {
	today := dates.TodayISO(now, dayStartHour)

	if task.DeadlineDate != "" && task.DeadlineDate < today {
		n, _ := dates.DaysBetween(task.DeadlineDate, today)
		return Result{Status: StatusCritical, Reason: ReasonOverdue, Detail: fmt.Sprintf("deadline passed %s", plural(n, "day"))}
	}

	if task.WaitingOn != nil {
		since := task.WaitingOn.Since
		if task.UpdatedAt.After(since) {
			since = task.UpdatedAt
		}
		if days := dates.DaysSince(now, since); days > float64(cfg.WaitingOnStaleDays) {
			return Result{Status: StatusCritical, Reason: ReasonWaitingStale, Detail: fmt.Sprintf("waiting on %s for %s", whoOrSomeone(task.WaitingOn.Who), plural(int(days), "day"))}
		}
	}

	if task.DeadlineDate != "" {
		if n, ok := dates.DaysBetween(today, task.DeadlineDate); ok && n <= cfg.DeadlineWarningDays {
			detail := "due today"
			if n > 0 {
				detail = fmt.Sprintf("due in %s", plural(n, "day"))
			}
			return Result{Status: StatusAtRisk, Reason: ReasonDeadlineSoon, Detail: detail}
		}
	}

	deferred := task.DeferredUntil != "" && task.DeferredUntil > today
	if !deferred && task.WaitingOn == nil {
		if days := dates.DaysSince(now, task.UpdatedAt); days >= float64(cfg.StaleDays) {
			return Result{Status: StatusAtRisk, Reason: ReasonStale, Detail: fmt.Sprintf("untouched for %s", plural(int(days), "day"))}
		}
	}

	return Result{Status: StatusHealthy}
}

// IsClassifiable reports whether a task belongs in health classification:
// active (pool) and not soft-deleted.
func IsClassifiable(task model.Task) bool {
	return task.Status == model.StatusPool && !task.IsDeleted()
}

type Summary struct {
	Healthy  int `json:"healthy" yaml:"healthy"`
	AtRisk   int `json:"atRisk" yaml:"atRisk"`
	Critical int `json:"critical" yaml:"critical"`
}

type Entry struct {
	TaskID string `json:"taskId" yaml:"taskId"`
	Title  string `json:"title" yaml:"title"`
	Result
}

// Classify evaluates every classifiable task, worst first, stable by input order.
func Classify(tasks []model.Task, now time.Time, dayStartHour int, cfg config.Health) ([]Entry, Summary) {
	var crit, risk, ok []Entry
	var sum Summary
	for _, t := range tasks {
		if !IsClassifiable(t) {
			continue
		}
		e := Entry{TaskID: t.ID, Title: t.Title, Result: ComputeHealthStatus(t, now, dayStartHour, cfg)}
		switch e.Status {
		case StatusCritical:
			crit = append(crit, e)
			sum.Critical++
		case StatusAtRisk:
			risk = append(risk, e)
			sum.AtRisk++
		default:
			ok = append(ok, e)
			sum.Healthy++
		}
	}
	out := make([]Entry, 0, len(crit)+len(risk)+len(ok))
	out = append(out, crit...)
	out = append(out, risk...)
	out = append(out, ok...)
	return out, sum
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func whoOrSomeone(who string) string {
	if who == "" {
		return "someone"
	}
	return who
}
