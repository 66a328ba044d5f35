// Package users stores user accounts. The store owns username uniqueness:
// a second Create with the same username fails with
// common.ErrDuplicateUsername no matter how the calls interleave.
package users

import (
	"context"

	"github.com/dmitrijs2005/assettrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
