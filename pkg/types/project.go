package types

import "strings"

// Project is owned by exactly one mission and optionally owns tasks.
type Project struct {
	ID          int64
	AccountID   int64
	Name        string
	Description string
	MissionID   int64
	IsCompleted bool
}

// EligibleProject is a project owned by some other mission, reported together
// with that mission's title. Used by reassignment workflows.
type EligibleProject struct {
	Project
	MissionTitle string
}

// NewProject validates and normalizes project fields.
// Returns ErrInvalidName when the name is blank.
func NewProject(id, accountID int64, name, description string, missionID int64, isCompleted bool) (Project, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return Project{}, ErrInvalidName
	}
	return Project{
		ID:          id,
		AccountID:   accountID,
		Name:        n,
		Description: strings.TrimSpace(description),
		MissionID:   missionID,
		IsCompleted: isCompleted,
	}, nil
}

// WithID returns a copy of the project carrying the given identity.
func (p Project) WithID(id int64) Project {
	p.ID = id
	return p
}
