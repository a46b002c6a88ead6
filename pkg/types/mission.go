package types

import "strings"

// Mission is the top-level grouping entity. A mission owns zero or more
// projects.
type Mission struct {
	ID          int64
	AccountID   int64
	Title       string
	Description string
	IsCompleted bool
}

// NewMission validates and normalizes mission fields. Title is trimmed and
// must be non-empty; Description is trimmed.
// Returns ErrInvalidTitle when the title is blank.
func NewMission(id, accountID int64, title, description string, isCompleted bool) (Mission, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return Mission{}, ErrInvalidTitle
	}
	return Mission{
		ID:          id,
		AccountID:   accountID,
		Title:       t,
		Description: strings.TrimSpace(description),
		IsCompleted: isCompleted,
	}, nil
}

// WithID returns a copy of the mission carrying the given identity.
func (m Mission) WithID(id int64) Mission {
	m.ID = id
	return m
}
