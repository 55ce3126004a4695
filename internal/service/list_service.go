package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/redact"
	"github.com/taskify-app/taskify-api/internal/store"
)

// CreateListInput carries the fields of a new list.
type CreateListInput struct {
	Title         string
	Daily         bool
	Collaborators domain.EmailList
	Fixed         bool
}

// DeleteListResult describes what a delete request did.
type DeleteListResult struct {
	Action domain.DeleteAction
	// Title is the list title captured before the delete.
	Title string
}

// ListService manages lists and their sharing.
type ListService interface {
	// CreateList creates a list owned by callerID.
	CreateList(ctx context.Context, callerID uuid.UUID, in CreateListInput) (*domain.ListView, error)

	// GetUserLists returns every list the caller owns or collaborates on.
	GetUserLists(ctx context.Context, callerID uuid.UUID) ([]domain.ListView, error)

	// GetList returns one list. Callers without a role on the list get
	// store.ErrListNotFound.
	GetList(ctx context.Context, callerID, listID uuid.UUID) (*domain.ListView, error)

	// UpdateList applies a partial update under the owner/collaborator rules.
	UpdateList(ctx context.Context, callerID, listID uuid.UUID, u domain.ListUpdate) (*domain.ListView, error)

	// DeleteList deletes the list for its owner or removes a collaborator
	// from it.
	DeleteList(ctx context.Context, callerID, listID uuid.UUID) (*DeleteListResult, error)
}

type listServiceImpl struct {
	users       store.UserStore
	lists       store.ListStore
	preferences store.PreferenceStore
	tx          store.TxRunner
	logger      *slog.Logger
}

// NewListService creates a ListService.
func NewListService(
	users store.UserStore,
	lists store.ListStore,
	preferences store.PreferenceStore,
	tx store.TxRunner,
	logger *slog.Logger,
) (ListService, error) {
	switch {
	case users == nil:
		return nil, errNilDependency("users")
	case lists == nil:
		return nil, errNilDependency("lists")
	case preferences == nil:
		return nil, errNilDependency("preferences")
	case tx == nil:
		return nil, errNilDependency("tx")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &listServiceImpl{
		users:       users,
		lists:       lists,
		preferences: preferences,
		tx:          tx,
		logger:      logger.With(slog.String("component", "list_service")),
	}, nil
}

// CreateList implements ListService.
func (s *listServiceImpl) CreateList(
	ctx context.Context,
	callerID uuid.UUID,
	in CreateListInput,
) (*domain.ListView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	list, err := domain.NewList(callerID, in.Title, in.Daily)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		lists := s.lists.WithTx(tx)

		owner, err := users.GetByID(ctx, callerID)
		if err != nil {
			return err
		}
		collaborators, err := resolveCollaborators(ctx, users, owner.Email, in.Collaborators)
		if err != nil {
			return err
		}

		if err := lists.Create(ctx, list); err != nil {
			return err
		}
		if len(collaborators) > 0 {
			if err := lists.SetCollaborators(ctx, list.ID, collaboratorIDs(collaborators)); err != nil {
				return err
			}
		}
		if in.Fixed {
			if err := s.preferences.WithTx(tx).SetFixed(ctx, callerID, list.ID, true); err != nil {
				return err
			}
		}
		list.Collaborators = collaborators
		return nil
	})
	if err != nil {
		return nil, s.wrap(log, "create", err)
	}

	log.Info("list created",
		slog.String("list_id", list.ID.String()),
		slog.Int("collaborators", len(list.Collaborators)))
	return &domain.ListView{List: *list, Fixed: in.Fixed}, nil
}

// GetUserLists implements ListService.
func (s *listServiceImpl) GetUserLists(ctx context.Context, callerID uuid.UUID) ([]domain.ListView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	views, err := s.lists.ListForUser(ctx, callerID)
	if err != nil {
		return nil, s.wrap(log, "list", err)
	}
	return views, nil
}

// GetList implements ListService.
func (s *listServiceImpl) GetList(ctx context.Context, callerID, listID uuid.UUID) (*domain.ListView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, s.wrap(log, "get", err)
	}
	// Lists are invisible to strangers.
	if !list.RoleOf(callerID).CanRead() {
		return nil, store.ErrListNotFound
	}

	fixed, err := s.fixedFor(ctx, s.preferences, callerID, listID)
	if err != nil {
		return nil, s.wrap(log, "get", err)
	}
	return &domain.ListView{List: *list, Fixed: fixed}, nil
}

// UpdateList implements ListService.
func (s *listServiceImpl) UpdateList(
	ctx context.Context,
	callerID, listID uuid.UUID,
	u domain.ListUpdate,
) (*domain.ListView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if u.Fixed.Set && u.Fixed.Null {
		return nil, domain.ErrNullNotAllowed
	}

	var view *domain.ListView
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		lists := s.lists.WithTx(tx)
		preferences := s.preferences.WithTx(tx)

		list, err := lists.GetByIDForUpdate(ctx, listID)
		if err != nil {
			return err
		}

		role := list.RoleOf(callerID)
		if err := domain.AuthorizeListUpdate(role, u); err != nil {
			log.Debug("list update refused",
				slog.String("list_id", listID.String()),
				slog.String("role", role.String()))
			return err
		}

		if u.HasContentChanges() {
			if err := u.ApplyContent(list); err != nil {
				return err
			}
			if u.Title.Set || u.Daily.Set {
				if err := lists.Update(ctx, list); err != nil {
					return err
				}
			}
			if u.Collaborators.Set {
				owner, err := users.GetByID(ctx, list.OwnerID)
				if err != nil {
					return err
				}
				var emails domain.EmailList
				if !u.Collaborators.Null {
					emails = u.Collaborators.Value
				}
				collaborators, err := resolveCollaborators(ctx, users, owner.Email, emails)
				if err != nil {
					return err
				}
				kept := collaboratorIDs(collaborators)
				if err := lists.SetCollaborators(ctx, listID, kept); err != nil {
					return err
				}
				// Removed collaborators lose their pin with their access.
				for _, id := range removedIDs(list.CollaboratorIDs(), kept) {
					if err := preferences.Delete(ctx, id, listID); err != nil {
						return err
					}
				}
				list.Collaborators = collaborators
			}
		}

		if u.Fixed.Set {
			if err := preferences.SetFixed(ctx, callerID, listID, u.Fixed.Value); err != nil {
				return err
			}
		}

		fixed, err := s.fixedFor(ctx, preferences, callerID, listID)
		if err != nil {
			return err
		}
		view = &domain.ListView{List: *list, Fixed: fixed}
		return nil
	})
	if err != nil {
		return nil, s.wrap(log, "update", err)
	}

	log.Info("list updated", slog.String("list_id", listID.String()))
	return view, nil
}

// DeleteList implements ListService.
func (s *listServiceImpl) DeleteList(ctx context.Context, callerID, listID uuid.UUID) (*DeleteListResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *DeleteListResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)

		list, err := lists.GetByIDForUpdate(ctx, listID)
		if err != nil {
			return err
		}

		action, err := domain.AuthorizeListDelete(list.RoleOf(callerID))
		if err != nil {
			return err
		}

		switch action {
		case domain.DeleteActionRemove:
			err = lists.Delete(ctx, listID)
		case domain.DeleteActionLeave:
			if err = lists.RemoveCollaborator(ctx, listID, callerID); err == nil {
				err = s.preferences.WithTx(tx).Delete(ctx, callerID, listID)
			}
		}
		if err != nil {
			return err
		}

		result = &DeleteListResult{Action: action, Title: list.Title}
		return nil
	})
	if err != nil {
		return nil, s.wrap(log, "delete", err)
	}

	log.Info("list delete handled",
		slog.String("list_id", listID.String()),
		slog.Int("action", int(result.Action)))
	return result, nil
}

// fixedFor returns the caller's pin for a list, false without a row.
func (s *listServiceImpl) fixedFor(
	ctx context.Context,
	preferences store.PreferenceStore,
	userID, listID uuid.UUID,
) (bool, error) {
	pref, err := preferences.Get(ctx, userID, listID)
	if err != nil {
		if errors.Is(err, store.ErrPreferenceNotFound) {
			return false, nil
		}
		return false, err
	}
	return pref.Fixed, nil
}

// wrap passes expected errors through and wraps everything else.
func (s *listServiceImpl) wrap(log *slog.Logger, op string, err error) error {
	if isExpected(err) {
		return err
	}
	log.Error("list operation failed",
		slog.String("op", op),
		slog.String("error", redact.Error(err)))
	return NewServiceError("list", op, err)
}

// resolveCollaborators maps invited e-mails to users. The owner's own address
// and duplicates are ignored; an address that matches no user fails the
// whole request.
func resolveCollaborators(
	ctx context.Context,
	users store.UserStore,
	ownerEmail string,
	emails domain.EmailList,
) ([]domain.Collaborator, error) {
	normalized, err := emails.Normalize(ownerEmail)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	found, err := users.GetByEmails(ctx, normalized)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]*domain.User, len(found))
	for _, u := range found {
		byEmail[u.Email] = u
	}

	collaborators := make([]domain.Collaborator, 0, len(normalized))
	for _, email := range normalized {
		u, ok := byEmail[email]
		if !ok {
			return nil, &domain.UnknownCollaboratorError{Email: email}
		}
		collaborators = append(collaborators, domain.Collaborator{UserID: u.ID, Email: u.Email})
	}
	return collaborators, nil
}

func collaboratorIDs(cs []domain.Collaborator) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.UserID)
	}
	return ids
}

// removedIDs returns the ids in before that are absent from after.
func removedIDs(before, after []uuid.UUID) []uuid.UUID {
	keep := make(map[uuid.UUID]struct{}, len(after))
	for _, id := range after {
		keep[id] = struct{}{}
	}
	var removed []uuid.UUID
	for _, id := range before {
		if _, ok := keep[id]; !ok {
			removed = append(removed, id)
		}
	}
	return removed
}

// isExpected reports whether err is part of the documented error taxonomy
// and should reach the caller unwrapped.
func isExpected(err error) bool {
	return store.IsNotFoundError(err) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, store.ErrInvalidEntity) ||
		errors.Is(err, store.ErrEmailExists)
}
