package mutate

import (
	"slices"
	"strings"
	"time"

	"focus-tools/internal/model"
	"focus-tools/internal/store"
)

type ProjectResult struct {
	Project      model.Project
	Changed      bool
	EventPayload map[string]any
}

func CreateProject(db *store.DB, name, color string, now time.Time) (ProjectResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProjectResult{}, ErrNameRequired
	}
	if _, ok := db.FindProjectByName(name); ok {
		return ProjectResult{}, ErrDuplicateProject
	}
	p := model.Project{
		ID:        model.NewID("proj"),
		Name:      name,
		Color:     strings.TrimSpace(color),
		CreatedAt: now,
	}
	db.Projects = append(db.Projects, p)
	return ProjectResult{Project: p, Changed: true, EventPayload: map[string]any{"name": p.Name}}, nil
}

// DeleteProject removes the project and detaches its tasks. Tasks are never deleted.
func DeleteProject(db *store.DB, projectID string, now time.Time) (ProjectResult, error) {
	projectID = strings.TrimSpace(projectID)
	i := slices.IndexFunc(db.Projects, func(p model.Project) bool { return p.ID == projectID })
	if i < 0 {
		return ProjectResult{}, NotFoundError{Kind: "project", ID: projectID}
	}
	p := db.Projects[i]
	db.Projects = slices.Delete(db.Projects, i, i+1)
	detached := 0
	for j := range db.Tasks {
		if db.Tasks[j].ProjectID == projectID {
			db.Tasks[j].ProjectID = ""
			db.Tasks[j].Touch(now)
			detached++
		}
	}
	return ProjectResult{
		Project:      p,
		Changed:      true,
		EventPayload: map[string]any{"name": p.Name, "tasksDetached": detached},
	}, nil
}

// SetEnergy records the user's declared energy. An empty level clears it.
func SetEnergy(db *store.DB, level model.EnergyLevel) error {
	switch level {
	case "", model.EnergyHigh, model.EnergyMedium, model.EnergyLow:
		db.Energy = level
		return nil
	default:
		return ErrInvalidValue
	}
}
