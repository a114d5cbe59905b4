package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/model"
)

// UserStore is the persistence contract the user service needs.
type UserStore interface {
	Upsert(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	SetRole(ctx context.Context, id int64, role model.Role) error
}

type UserService struct {
	store    UserStore
	adminIDs map[int64]struct{}
	logger   *zap.Logger
}

func NewUserService(store UserStore, adminIDs []int64, logger *zap.Logger) *UserService {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &UserService{store: store, adminIDs: admins, logger: logger}
}

// Register creates or refreshes a user. Everyone registers as a professor
// unless listed as an institution administrator in the deployment config.
func (s *UserService) Register(ctx context.Context, id int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	role := model.RoleProfessor
	if _, ok := s.adminIDs[id]; ok {
		role = model.RoleAdmin
	}

	user := &model.User{
		ID:           id,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		Role:         role,
	}

	if err := s.store.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	// Configured admins keep their role even if first registered before the
	// deployment config listed them.
	if role == model.RoleAdmin && user.Role != model.RoleAdmin {
		if err := s.store.SetRole(ctx, id, model.RoleAdmin); err != nil {
			return nil, fmt.Errorf("promote configured admin: %w", err)
		}
		user.Role = model.RoleAdmin
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)))

	return user, nil
}

// Get returns a registered user, or model.ErrNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.store.GetByID(ctx, id)
}

// SetRole lets an admin change another user's role.
func (s *UserService) SetRole(ctx context.Context, actor *model.User, targetID int64, role model.Role) error {
	if actor == nil || !actor.IsAdmin() {
		return model.ErrForbidden
	}

	if err := s.store.SetRole(ctx, targetID, role); err != nil {
		return err
	}

	s.logger.Info("User role changed",
		zap.Int64("actor_id", actor.ID),
		zap.Int64("target_id", targetID),
		zap.String("role", string(role)))

	return nil
}
