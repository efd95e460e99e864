package priority

import (
	"focus-tools/internal/config"
	"focus-tools/internal/model"
)

type EnergyMatch string

const (
	EnergyMatchYes      EnergyMatch = "match"
	EnergyMatchNeutral  EnergyMatch = "neutral"
	EnergyMatchMismatch EnergyMatch = "mismatch"
)

// Value is the normalized factor used in scoring.
func (m EnergyMatch) Value() float64 {
	switch m {
	case EnergyMatchYes:
		return 1
	case EnergyMatchMismatch:
		return 0
	default:
		return 0.5
	}
}

// EnergyMatchOf compares a task's energy type with the user's declared level.
//
//	user high:   draining matches, energizing is neutral
//	user medium: energizing matches, draining is neutral
//	user low:    energizing matches, draining mismatches
//
// Unset or neutral on either side is neutral.
func EnergyMatchOf(task model.EnergyType, user model.EnergyLevel) EnergyMatch {
	if task == "" || task == model.EnergyNeutral || user == "" {
		return EnergyMatchNeutral
	}
	switch user {
	case model.EnergyHigh:
		if task == model.EnergyDraining {
			return EnergyMatchYes
		}
	case model.EnergyMedium:
		if task == model.EnergyEnergizing {
			return EnergyMatchYes
		}
	case model.EnergyLow:
		switch task {
		case model.EnergyEnergizing:
			return EnergyMatchYes
		case model.EnergyDraining:
			return EnergyMatchMismatch
		}
	}
	return EnergyMatchNeutral
}

// FilterByEnergy splits tasks into visible and hidden sets. Only
// hide_mismatched hides anything, and only hard mismatches are hidden.
func FilterByEnergy(tasks []model.Task, user model.EnergyLevel, mode string) (visible, hidden []model.Task) {
	visible = make([]model.Task, 0, len(tasks))
	hidden = []model.Task{}
	for _, t := range tasks {
		if mode == config.EnergyFilterHideMismatched && EnergyMatchOf(t.EnergyType, user) == EnergyMatchMismatch {
			hidden = append(hidden, t)
			continue
		}
		visible = append(visible, t)
	}
	return visible, hidden
}
