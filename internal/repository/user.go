package repository

import (
	"context"
	"database/sql"

	"github.com/deppfellow/user-api/internal/model"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// UserRepository is the bun-backed UserStore.
type UserRepository struct {
	db bun.IDB
}

// NewUserRepository creates a UserRepository. db may be a *bun.DB or a
// bun.Tx.
func NewUserRepository(db bun.IDB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0)

	err := r.db.NewSelect().
		Model(&users).
		OrderExpr("u.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}

	err := r.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrapf(err, "failed to get user %d", id)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}

	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	result, err := r.db.NewUpdate().
		Model(user).
		Column("name", "address").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to update user %d", user.ID)
	}

	return requireRowsAffected(result)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().
		Model((*model.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to delete user %d", id)
	}

	return requireRowsAffected(result)
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
