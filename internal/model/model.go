package model

import (
	"encoding/json"
	"time"
)

type TaskStatus string

const (
	StatusInbox    TaskStatus = "inbox"
	StatusPool     TaskStatus = "pool"
	StatusComplete TaskStatus = "complete"
	StatusArchived TaskStatus = "archived"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Importance string

const (
	ImportanceMustDo      Importance = "must_do"
	ImportanceShouldDo    Importance = "should_do"
	ImportanceCouldDo     Importance = "could_do"
	ImportanceWouldLikeTo Importance = "would_like_to"
)

// EnergyType describes how a task affects the person doing it.
type EnergyType string

const (
	EnergyEnergizing EnergyType = "energizing"
	EnergyNeutral    EnergyType = "neutral"
	EnergyDraining   EnergyType = "draining"
)

// EnergyLevel is the user's self-declared current energy.
type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

type Project struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Color     string    `json:"color,omitempty" yaml:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

type Step struct {
	ID               string     `json:"id" yaml:"id"`
	Text             string     `json:"text" yaml:"text"`
	Completed        bool       `json:"completed" yaml:"completed"`
	CompletedAt      *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	EstimatedMinutes *int       `json:"estimatedMinutes,omitempty" yaml:"estimatedMinutes,omitempty"`

	// TemplateStepID links an instance step back to the template step it was cloned from.
	TemplateStepID string `json:"templateStepId,omitempty" yaml:"templateStepId,omitempty"`
}

// WaitingOn marks a task as blocked on someone or something outside the user's control.
type WaitingOn struct {
	Who   string    `json:"who" yaml:"who"`
	Note  string    `json:"note,omitempty" yaml:"note,omitempty"`
	Since time.Time `json:"since" yaml:"since"`
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// LastWeekOfMonth is the WeekOfMonth value meaning "last occurrence in the month".
const LastWeekOfMonth = 5

type RecurrenceRule struct {
	Frequency Frequency `json:"frequency" yaml:"frequency"`
	Interval  int       `json:"interval" yaml:"interval"`

	// DaysOfWeek uses 0=Sunday..6=Saturday. A nil slice and an empty slice mean
	// different things for weekly rules, so it is never omitted.
	DaysOfWeek  []int `json:"daysOfWeek" yaml:"daysOfWeek"`
	DayOfMonth  *int  `json:"dayOfMonth,omitempty" yaml:"dayOfMonth,omitempty"`
	WeekOfMonth *int  `json:"weekOfMonth,omitempty" yaml:"weekOfMonth,omitempty"`

	Time             string     `json:"time,omitempty" yaml:"time,omitempty"` // HH:MM
	StartDate        string     `json:"startDate" yaml:"startDate"`           // YYYY-MM-DD
	RolloverIfMissed bool       `json:"rolloverIfMissed" yaml:"rolloverIfMissed"`
	PausedAt         *time.Time `json:"pausedAt,omitempty" yaml:"pausedAt,omitempty"`
}

// RecurringInstance is one calendar-date materialization of a recurring task.
type RecurringInstance struct {
	Date            string     `json:"date" yaml:"date"`
	RoutineSteps    []Step     `json:"routineSteps" yaml:"routineSteps"`
	AdditionalSteps []Step     `json:"additionalSteps" yaml:"additionalSteps"`
	Completed       bool       `json:"completed" yaml:"completed"`
	Skipped         bool       `json:"skipped" yaml:"skipped"`
	CompletedAt     *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	Notes           string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Steps returns routine steps followed by instance-only steps.
func (ri RecurringInstance) Steps() []Step {
	out := make([]Step, 0, len(ri.RoutineSteps)+len(ri.AdditionalSteps))
	out = append(out, ri.RoutineSteps...)
	out = append(out, ri.AdditionalSteps...)
	return out
}

// Met reports whether the occurrence no longer needs attention.
func (ri RecurringInstance) Met() bool {
	return ri.Completed || ri.Skipped
}

type Task struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`

	Status     TaskStatus `json:"status" yaml:"status"`
	Priority   Priority   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Importance Importance `json:"importance,omitempty" yaml:"importance,omitempty"`
	EnergyType EnergyType `json:"energyType,omitempty" yaml:"energyType,omitempty"`

	TargetDate    string     `json:"targetDate,omitempty" yaml:"targetDate,omitempty"`
	DeadlineDate  string     `json:"deadlineDate,omitempty" yaml:"deadlineDate,omitempty"`
	DeferredUntil string     `json:"deferredUntil,omitempty" yaml:"deferredUntil,omitempty"`
	WaitingOn     *WaitingOn `json:"waitingOn,omitempty" yaml:"waitingOn,omitempty"`

	// Steps is the working step list; for recurring tasks it is the template.
	Steps []Step `json:"steps" yaml:"steps"`

	Recurrence         *RecurrenceRule     `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	RecurringInstances []RecurringInstance `json:"recurringInstances,omitempty" yaml:"recurringInstances,omitempty"`

	ProjectID string `json:"projectId,omitempty" yaml:"projectId,omitempty"`

	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" yaml:"deletedAt,omitempty"`
}

func (t Task) IsRecurring() bool {
	return t.Recurrence != nil
}

func (t Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// Touch records a meaningful update at now.
func (t *Task) Touch(now time.Time) {
	t.UpdatedAt = now
}

type SelectionType string

const (
	SelectionAllToday      SelectionType = "all_today"
	SelectionAllUpcoming   SelectionType = "all_upcoming"
	SelectionSpecificSteps SelectionType = "specific_steps"
)

type FocusQueueItem struct {
	ID               string        `json:"id" yaml:"id"`
	TaskID           string        `json:"taskId" yaml:"taskId"`
	SelectionType    SelectionType `json:"selectionType" yaml:"selectionType"`
	SelectedStepIDs  []string      `json:"selectedStepIds,omitempty" yaml:"selectedStepIds,omitempty"`
	AddedAt          time.Time     `json:"addedAt" yaml:"addedAt"`
	LastInteractedAt time.Time     `json:"lastInteractedAt" yaml:"lastInteractedAt"`
	Completed        bool          `json:"completed" yaml:"completed"`
}

// FocusQueue is the manually ordered list of queued work. Items before
// TodayLineIndex are "today"; the rest are "upcoming".
type FocusQueue struct {
	Items          []FocusQueueItem `json:"items" yaml:"items"`
	TodayLineIndex int              `json:"todayLineIndex" yaml:"todayLineIndex"`
}

// FocusModeState is the transient state of a focus session. The zero value is idle.
type FocusModeState struct {
	Active         bool          `json:"active" yaml:"active"`
	QueueItemID    string        `json:"queueItemId,omitempty" yaml:"queueItemId,omitempty"`
	TaskID         string        `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	CurrentStepID  string        `json:"currentStepId,omitempty" yaml:"currentStepId,omitempty"`
	InstanceDate   string        `json:"instanceDate,omitempty" yaml:"instanceDate,omitempty"`
	StartTime      time.Time     `json:"startTime" yaml:"startTime"`
	Paused         bool          `json:"paused" yaml:"paused"`
	PausedTime     time.Duration `json:"pausedTime" yaml:"pausedTime"`
	PauseStartTime *time.Time    `json:"pauseStartTime,omitempty" yaml:"pauseStartTime,omitempty"`
}

// FocusSessionRecord is the history entry written when a session exits.
type FocusSessionRecord struct {
	ID           string        `json:"id" yaml:"id"`
	TaskID       string        `json:"taskId" yaml:"taskId"`
	QueueItemID  string        `json:"queueItemId,omitempty" yaml:"queueItemId,omitempty"`
	InstanceDate string        `json:"instanceDate,omitempty" yaml:"instanceDate,omitempty"`
	StartedAt    time.Time     `json:"startedAt" yaml:"startedAt"`
	EndedAt      time.Time     `json:"endedAt" yaml:"endedAt"`
	Focused      time.Duration `json:"focused" yaml:"focused"`
	Route        string        `json:"route" yaml:"route"`
}

// Event is one entry in the append-only mutation log.
type Event struct {
	ID       string          `json:"id" yaml:"id"`
	TS       time.Time       `json:"ts" yaml:"ts"`
	Type     string          `json:"type" yaml:"type"`
	EntityID string          `json:"entityId" yaml:"entityId"`
	Payload  json.RawMessage `json:"payload,omitempty" yaml:"-"`
}
