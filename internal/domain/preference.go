package domain

import "github.com/google/uuid"

// ListPreference is one user's personal pin state for one list.
type ListPreference struct {
	UserID uuid.UUID
	ListID uuid.UUID
	Fixed  bool
}
