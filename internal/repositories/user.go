package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
)

var _ models.Repository[*models.User] = (*UserRepository)(nil)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// UserRepository implements [models.Repository] for user [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with a generated ID
func (r *UserRepository) Create(user *models.User) error {
	return createUser(r.db, user)
}

func createUser(q queryer, user *models.User) error {
	user.SetID(shared.GenerateID())

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `INSERT INTO users (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`

	if _, err := q.Exec(query, user.ID(), user.Name(), user.CreatedAt(), user.UpdatedAt()); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %q already exists", shared.ErrInvalidInput, user.Name())
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `SELECT id, name, created_at, updated_at FROM users WHERE id = ?`
	return scanUser(r.db.QueryRow(query, id), id)
}

// GetByName retrieves a user by their unique name
func (r *UserRepository) GetByName(name string) (*models.User, error) {
	return getUserByName(r.db, name)
}

func getUserByName(q queryer, name string) (*models.User, error) {
	query := `SELECT id, name, created_at, updated_at FROM users WHERE name = ?`
	return scanUser(q.QueryRow(query, name), name)
}

// GetOrCreate returns the user called name, creating it first if needed.
func (r *UserRepository) GetOrCreate(name string) (*models.User, error) {
	return getOrCreateUser(r.db, name)
}

func getOrCreateUser(q queryer, name string) (*models.User, error) {
	name = strings.TrimSpace(name)

	user, err := getUserByName(q, name)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user = models.NewUser(name)
	if err := createUser(q, user); err != nil {
		return nil, err
	}
	return user, nil
}

func scanUser(row *sql.Row, ref string) (*models.User, error) {
	var (
		id        string
		name      string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user := models.NewUser(name)
	user.SetID(id)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	return user, nil
}

// Update renames an existing user
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	result, err := r.db.Exec(`UPDATE users SET name = ?, updated_at = ? WHERE id = ?`, user.Name(), now, user.ID())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %q already exists", shared.ErrInvalidInput, user.Name())
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return expectRows(result, "user", user.ID())
}

// Delete removes a user and, through the foreign key cascade, their rankings
func (r *UserRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return expectRows(result, "user", id)
}

// List retrieves all users matching the given criteria, ordered by name.
//
// Supported criteria: "name" (exact match).
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `SELECT id, name, created_at, updated_at FROM users`
	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " WHERE name = ?"
		args = append(args, name)
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var (
			id        string
			name      string
			createdAt time.Time
			updatedAt time.Time
		)

		if err := rows.Scan(&id, &name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		user := models.NewUser(name)
		user.SetID(id)
		user.SetCreatedAt(createdAt)
		user.SetUpdatedAt(updatedAt)
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

func expectRows(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s", shared.ErrNotFound, kind, id)
	}
	return nil
}
