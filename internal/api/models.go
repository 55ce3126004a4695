package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	UserID       uuid.UUID `json:"userId"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
// A missing token is reported by the session service, not the validator.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokenResponse carries the new access token. The refresh token is
// not rotated.
type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// RenameUserRequest changes the caller's display name.
type RenameUserRequest struct {
	NewName string `json:"newName" validate:"required"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max=72"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// CreateListRequest defines the payload for creating a list.
type CreateListRequest struct {
	Title               string           `json:"title"               validate:"required"`
	Daily               bool             `json:"daily"`
	CollaboratorsEmails domain.EmailList `json:"collaboratorsEmails"`
	Fixed               bool             `json:"fixed"`
}

// UpdateListRequest is a partial list update. Absent fields are kept.
type UpdateListRequest struct {
	Title               domain.Optional[string]           `json:"title"`
	Daily               domain.Optional[bool]             `json:"daily"`
	CollaboratorsEmails domain.Optional[domain.EmailList] `json:"collaboratorsEmails"`
	Fixed               domain.Optional[bool]             `json:"fixed"`
}

func (req UpdateListRequest) toDomain() domain.ListUpdate {
	return domain.ListUpdate{
		Title:         req.Title,
		Daily:         req.Daily,
		Collaborators: req.CollaboratorsEmails,
		Fixed:         req.Fixed,
	}
}

// ListResponse is a list as seen by the caller.
type ListResponse struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	UserID              uuid.UUID `json:"userId"`
	Daily               bool      `json:"daily"`
	Fixed               bool      `json:"fixed"`
	CollaboratorsEmails []string  `json:"collaboratorsEmails"`
	CreatedAt           time.Time `json:"createdAt"`
}

func listToResponse(v *domain.ListView) ListResponse {
	return ListResponse{
		ID:                  v.ID,
		Title:               v.Title,
		UserID:              v.OwnerID,
		Daily:               v.Daily,
		Fixed:               v.Fixed,
		CollaboratorsEmails: v.CollaboratorEmails(),
		CreatedAt:           v.CreatedAt,
	}
}

func listsToResponse(views []domain.ListView) []ListResponse {
	out := make([]ListResponse, 0, len(views))
	for i := range views {
		out = append(out, listToResponse(&views[i]))
	}
	return out
}

// TaskRequest is used both to create and to partially update a task. On
// create only title is required; on update absent fields keep their value
// and description, priority, dueDate and file may be cleared with null.
type TaskRequest struct {
	Title        domain.Optional[string]  `json:"title"`
	Description  domain.Optional[string]  `json:"description"`
	Priority     domain.Optional[string]  `json:"priority"`
	Completed    domain.Optional[bool]    `json:"completed"`
	DueDate      domain.Optional[DueDate] `json:"dueDate"`
	Notification domain.Optional[bool]    `json:"notification"`
	Important    domain.Optional[bool]    `json:"important"`
	File         domain.Optional[string]  `json:"file"`
}

func (req TaskRequest) toDomain() domain.TaskUpdate {
	due := domain.Optional[time.Time]{Set: req.DueDate.Set, Null: req.DueDate.Null}
	if req.DueDate.HasValue() {
		due.Value = req.DueDate.Value.Time
	}
	return domain.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Completed:    req.Completed,
		DueDate:      due,
		Notification: req.Notification,
		Important:    req.Important,
		File:         req.File,
	}
}

// DueDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date, which is
// read as midnight UTC.
type DueDate struct {
	time.Time
}

var dueDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: dueDate must be a string", domain.ErrValidation)
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: dueDate must be an RFC 3339 timestamp or YYYY-MM-DD", domain.ErrValidation)
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	ListID       uuid.UUID  `json:"listId"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Priority     *string    `json:"priority"`
	Completed    bool       `json:"completed"`
	DueDate      *time.Time `json:"dueDate"`
	Notification bool       `json:"notification"`
	Important    bool       `json:"important"`
	File         *string    `json:"file"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		ListID:       t.ListID,
		Title:        t.Title,
		Description:  t.Description,
		Priority:     t.Priority,
		Completed:    t.Completed,
		DueDate:      t.DueDate,
		Notification: t.Notification,
		Important:    t.Important,
		File:         t.File,
		CreatedAt:    t.CreatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}
