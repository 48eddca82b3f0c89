package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/course-service/internal/cache"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type UserService interface {
	// GetByFirebaseUID returns ErrUserNotFound when no user matches
	GetByFirebaseUID(ctx context.Context, params *GetUserParams) (*GetUserResponse, error)
	// UpdateName lets users rename themselves; admins may rename anyone
	UpdateName(ctx context.Context, caller Caller, params *GetUserParams, body *EditUserBody) (*GetUserResponse, error)
}

type userService struct {
	repo        repositories.Repository
	cache       cache.CacheService
	cacheTTL    time.Duration
	repairDelay time.Duration
	validator   *validator.Validator
	log         *ServiceLogger
}

func NewUserService(deps Dependencies) UserService {
	return &userService{
		repo:        deps.Repo,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		repairDelay: deps.cacheRepairDelay(),
		validator:   deps.Validator,
		log:         NewServiceLogger(deps.Logger, "user"),
	}
}

func (s *userService) GetByFirebaseUID(ctx context.Context, params *GetUserParams) (*GetUserResponse, error) {
	if params == nil {
		return nil, NewValidationError("userId", "is required", nil)
	}
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	key := cache.UserKey(params.UserID)

	var cached GetUserResponse
	if readCache(ctx, s.cache, s.log, key, &cached) {
		return &cached, nil
	}

	user, err := s.repo.User().GetByFirebaseUID(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := NewGetUserResponse(user)
	writeCache(ctx, s.cache, s.log, key, resp, s.cacheTTL)
	return resp, nil
}

func (s *userService) UpdateName(ctx context.Context, caller Caller, params *GetUserParams, body *EditUserBody) (resp *GetUserResponse, err error) {
	op := s.log.WithOperation(ctx, "update_user_name", caller.UserID)
	defer func() {
		id := ""
		if params != nil {
			id = params.UserID
		}
		op.LogResult(id, "user", err)
	}()

	if params == nil || body == nil {
		return nil, NewValidationError("body", "is required", nil)
	}
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(body); err != nil {
		return nil, err
	}

	if caller.UserID != params.UserID && !caller.HasRole(models.RoleAdmin) {
		return nil, NewPermissionError(caller.UserID, params.UserID, "user", "update", "only the user or an admin may edit this profile")
	}

	user, err := s.repo.User().UpdateName(ctx, params.UserID, body.FirstName, body.LastName)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	invalidateCache(ctx, s.cache, s.log, cache.UserKey(params.UserID), s.repairDelay)
	return NewGetUserResponse(user), nil
}
