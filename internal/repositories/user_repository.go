package repositories

import (
	"context"

	"github.com/SAP-F-2025/course-service/internal/models"
)

// UserRepository is read-mostly; users are provisioned by the identity service
type UserRepository interface {
	// GetByFirebaseUID returns nil, nil when no user matches
	GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	// UpdateName returns nil, nil when no user matches
	UpdateName(ctx context.Context, firebaseUID, firstName, lastName string) (*models.User, error)
}
