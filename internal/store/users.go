// internal/store/users.go

// Package store implements plain-SQL persistence against Postgres. Each store
// performs single-statement reads and single-row writes; no transaction spans
// more than one table.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	"github.com/lib/pq"

	"office-portal/internal/common/errors"
	"office-portal/internal/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// List returns all users in ascending id order, optionally only active ones.
func (s *UserStore) List(ctx context.Context, onlyActive bool) ([]models.User, error) {
	query := `
		SELECT id, name, role, is_trainee, is_active
		FROM users
		ORDER BY id ASC`
	if onlyActive {
		query = `
		SELECT id, name, role, is_trainee, is_active
		FROM users
		WHERE is_active = TRUE
		ORDER BY id ASC`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, fmt.Errorf("list users: %w", err))
	}
	defer rows.Close()

	return scanUsers(rows)
}

// ListEvaluators returns active users whose role is in roles, ascending id.
// Trainees are excluded; they do not evaluate others.
func (s *UserStore) ListEvaluators(ctx context.Context, roles []models.Role) ([]models.User, error) {
	if len(roles) == 0 {
		return []models.User{}, nil
	}
	roleStrs := make([]string, 0, len(roles))
	for _, r := range roles {
		roleStrs = append(roleStrs, string(r))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, is_trainee, is_active
		FROM users
		WHERE is_active = TRUE AND is_trainee = FALSE AND role = ANY($1)
		ORDER BY id ASC`, pq.Array(roleStrs))
	if err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, fmt.Errorf("list evaluators: %w", err))
	}
	defer rows.Close()

	return scanUsers(rows)
}

// Create inserts a user with its manually assigned id. A duplicate id is a
// validation error, not a store failure.
func (s *UserStore) Create(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, role, is_trainee, is_active)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, string(u.Role), u.IsTrainee, u.IsActive)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return errors.NewValidation(errors.ErrCodeDuplicateUserID,
				fmt.Sprintf("user id %d is already taken", u.ID))
		}
		return errors.NewUnavailable(errors.ErrCodeStoreUnavailable, fmt.Errorf("create user: %w", err))
	}
	return nil
}

// Update rewrites a user's mutable fields.
func (s *UserStore) Update(ctx context.Context, u models.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, role = $3, is_trainee = $4, is_active = $5
		WHERE id = $1`,
		u.ID, u.Name, string(u.Role), u.IsTrainee, u.IsActive)
	if err != nil {
		return errors.NewUnavailable(errors.ErrCodeStoreUnavailable, fmt.Errorf("update user: %w", err))
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NewNotFound("user", strconv.Itoa(u.ID))
	}
	return nil
}

// Delete hard-deletes a user. Historical references are left untouched.
func (s *UserStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.NewUnavailable(errors.ErrCodeStoreUnavailable, fmt.Errorf("delete user: %w", err))
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return errors.NewNotFound("user", strconv.Itoa(id))
	}
	return nil
}

func scanUsers(rows *sql.Rows) ([]models.User, error) {
	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.Name, &role, &u.IsTrainee, &u.IsActive); err != nil {
			return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, fmt.Errorf("scan user: %w", err))
		}
		u.Role = models.Role(role)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewUnavailable(errors.ErrCodeStoreUnavailable, err)
	}
	return users, nil
}

// SortByRole orders users by role rank, then id. Used wherever a role-grouped
// listing is wanted instead of the plain id order.
func SortByRole(users []models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		ri, rj := models.RoleRank(users[i].Role), models.RoleRank(users[j].Role)
		if ri != rj {
			return ri < rj
		}
		return users[i].ID < users[j].ID
	})
}
