package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) UpdateName(ctx context.Context, firebaseUID, firstName, lastName string) (*models.User, error) {
	result := u.db.WithContext(ctx).
		Model(&models.User{}).
		Where("firebase_uid = ?", firebaseUID).
		Updates(map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return u.GetByFirebaseUID(ctx, firebaseUID)
}
