// Package priority scores tasks for "what to work on next".
//
// The score is a weighted sum of four factors, each normalized to [0,1]:
// deadline urgency, importance, energy match and staleness. Weights, windows
// and tier cut points come from config.Priority.
package priority

import (
	"math"
	"slices"
	"time"

	"focus-tools/internal/config"
	"focus-tools/internal/dates"
	"focus-tools/internal/model"
)

type Tier string

const (
	TierCritical Tier = "critical"
	TierHigh     Tier = "high"
	TierMedium   Tier = "medium"
	TierLow      Tier = "low"
)

// Rank orders tiers from most to least urgent.
func (t Tier) Rank() int {
	switch t {
	case TierCritical:
		return 0
	case TierHigh:
		return 1
	case TierMedium:
		return 2
	default:
		return 3
	}
}

type Factors struct {
	Deadline   float64 `json:"deadline" yaml:"deadline"`
	Importance float64 `json:"importance" yaml:"importance"`
	Energy     float64 `json:"energy" yaml:"energy"`
	Staleness  float64 `json:"staleness" yaml:"staleness"`
}

type Info struct {
	Score   float64 `json:"score" yaml:"score"`
	Tier    Tier    `json:"tier" yaml:"tier"`
	Factors Factors `json:"factors" yaml:"factors"`
}

// GetTaskPriorityInfo scores one task for the user's current energy.
func GetTaskPriorityInfo(task model.Task, energy model.EnergyLevel, now time.Time, dayStartHour int, cfg config.Priority) Info {
	today := dates.TodayISO(now, dayStartHour)
	f := Factors{
		Deadline:   deadlineUrgency(task.DeadlineDate, today, cfg.DeadlineWindowDays),
		Importance: importanceValue(task.Importance, cfg.Importance),
		Energy:     EnergyMatchOf(task.EnergyType, energy).Value(),
		Staleness:  staleness(task.UpdatedAt, now, cfg.StalenessCeilingDays),
	}
	w := cfg.Weights
	score := f.Deadline*w.Deadline + f.Importance*w.Importance + f.Energy*w.Energy + f.Staleness*w.Staleness
	// Keep scores stable for display and equality comparisons.
	score = math.Round(score*1e6) / 1e6
	return Info{Score: score, Tier: TierFor(score, cfg.Tiers), Factors: f}
}

// TierFor maps a score to its tier using inclusive lower bounds.
func TierFor(score float64, tiers config.Tiers) Tier {
	switch {
	case score >= tiers.Critical:
		return TierCritical
	case score >= tiers.High:
		return TierHigh
	case score >= tiers.Medium:
		return TierMedium
	default:
		return TierLow
	}
}

func deadlineUrgency(deadline, today string, windowDays int) float64 {
	if deadline == "" {
		return 0
	}
	n, ok := dates.DaysBetween(today, deadline)
	if !ok {
		return 0
	}
	if n <= 0 {
		return 1
	}
	if windowDays <= 0 || n >= windowDays {
		return 0
	}
	return 1 - float64(n)/float64(windowDays)
}

// importanceValue treats unset importance as should_do.
func importanceValue(imp model.Importance, v config.Importance) float64 {
	switch imp {
	case model.ImportanceMustDo:
		return v.MustDo
	case model.ImportanceCouldDo:
		return v.CouldDo
	case model.ImportanceWouldLikeTo:
		return v.WouldLikeTo
	default:
		return v.ShouldDo
	}
}

func staleness(updatedAt, now time.Time, ceilingDays int) float64 {
	if ceilingDays <= 0 {
		return 0
	}
	return math.Min(dates.DaysSince(now, updatedAt)/float64(ceilingDays), 1)
}

// Scored pairs a task with its priority info.
type Scored struct {
	Task model.Task `json:"task" yaml:"task"`
	Info Info       `json:"priority" yaml:"priority"`
}

// Less is the ordering used everywhere tasks are ranked: higher score first,
// then earlier deadline (no deadline last), then earlier createdAt, then id.
func Less(a, b Scored) bool {
	if a.Info.Score != b.Info.Score {
		return a.Info.Score > b.Info.Score
	}
	da, db := a.Task.DeadlineDate, b.Task.DeadlineDate
	if da != db {
		if da == "" {
			return false
		}
		if db == "" {
			return true
		}
		return da < db
	}
	if !a.Task.CreatedAt.Equal(b.Task.CreatedAt) {
		return a.Task.CreatedAt.Before(b.Task.CreatedAt)
	}
	return a.Task.ID < b.Task.ID
}

// Compare adapts Less to the three-way form used by slices.SortStableFunc.
func Compare(a, b Scored) int {
	switch {
	case Less(a, b):
		return -1
	case Less(b, a):
		return 1
	}
	return 0
}

// Rank scores and sorts tasks. The input slice is not modified.
func Rank(tasks []model.Task, energy model.EnergyLevel, now time.Time, dayStartHour int, cfg config.Priority) []Scored {
	out := make([]Scored, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, Scored{Task: t, Info: GetTaskPriorityInfo(t, energy, now, dayStartHour, cfg)})
	}
	slices.SortStableFunc(out, Compare)
	return out
}

// GroupByTier buckets an already ranked list, preserving order within tiers.
func GroupByTier(ranked []Scored) map[Tier][]Scored {
	out := map[Tier][]Scored{}
	for _, s := range ranked {
		out[s.Info.Tier] = append(out[s.Info.Tier], s)
	}
	return out
}
