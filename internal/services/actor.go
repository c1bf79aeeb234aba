package services

import "jobboard/internal/domain/models"

// Actor is the authenticated caller a service works for. The zero Actor is
// the server itself and is never restricted.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) staff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleEmployer
}

// restricted reports whether the caller only sees its own records.
func (a Actor) restricted() bool {
	return a.Role != "" && !a.staff()
}
