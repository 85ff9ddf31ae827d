package users

import (
	"context"

	"github.com/dmitrijs2005/linkmark/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	ExistsByUserKey(ctx context.Context, key string) (bool, error)
}
