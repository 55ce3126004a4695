package domain

import "fmt"

// Role is the relationship between a caller and a list.
type Role int

const (
	// RoleNone means the caller neither owns nor collaborates on the list.
	RoleNone Role = iota
	// RoleCollaborator means the list has been shared with the caller.
	RoleCollaborator
	// RoleOwner means the caller created the list.
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleCollaborator:
		return "collaborator"
	default:
		return "none"
	}
}

// CanRead reports whether the role may see the list and its tasks.
func (r Role) CanRead() bool {
	return r == RoleOwner || r == RoleCollaborator
}

// AuthorizeListUpdate decides whether role may apply u. Owners may change
// everything. Collaborators may only change their own pin; an update carrying
// any content field is rejected as a whole.
func AuthorizeListUpdate(role Role, u ListUpdate) error {
	switch role {
	case RoleOwner:
		return nil
	case RoleCollaborator:
		if u.HasContentChanges() {
			return fmt.Errorf("%w: collaborators may only change their own pin", ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("%w: not a member of this list", ErrForbidden)
	}
}

// DeleteAction is what a delete request on a list resolves to.
type DeleteAction int

const (
	// DeleteActionRemove hard-deletes the list and everything under it.
	DeleteActionRemove DeleteAction = iota + 1
	// DeleteActionLeave removes only the caller from the collaborators.
	DeleteActionLeave
)

// AuthorizeListDelete maps role to the effect of a delete request.
func AuthorizeListDelete(role Role) (DeleteAction, error) {
	switch role {
	case RoleOwner:
		return DeleteActionRemove, nil
	case RoleCollaborator:
		return DeleteActionLeave, nil
	default:
		return 0, fmt.Errorf("%w: not a member of this list", ErrForbidden)
	}
}
