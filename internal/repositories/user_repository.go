package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"inventory_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindActiveByUsername(username string) (*models.User, string, error) // Returns User, HashedPassword, Error
	FindUserByID(userID int64) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(executor SQLExecutor, user *models.User, hashedPassword *string) error
	DeleteUser(executor SQLExecutor, userID int64) error
	CredentialTaken(executor SQLExecutor, username string, email *string, excludeID int64) (bool, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, username, role, email, is_active, created_at"

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var email sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Role, &email, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		user.Email = &email.String
	}
	return user, nil
}

func (r *userRepository) CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, role, email, is_active)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`

	var userID int64
	err := executor.QueryRow(query,
		user.Username, hashedPassword, user.Role, user.Email, user.IsActive,
	).Scan(&userID, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			// The violated constraint name tells the service layer whether the
			// username or the email collided.
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	user.ID = userID
	return userID, nil
}

// FindActiveByUsername retrieves an active user and their stored credential
// hash. Inactive accounts are indistinguishable from missing ones.
func (r *userRepository) FindActiveByUsername(username string) (*models.User, string, error) {
	user := &models.User{}
	var email sql.NullString
	var hashedPassword string

	query := `SELECT id, username, password_hash, role, email, is_active, created_at
	          FROM users
	          WHERE username = $1 AND is_active = TRUE`

	err := r.db.QueryRow(query, username).Scan(
		&user.ID, &user.Username, &hashedPassword, &user.Role, &email, &user.IsActive, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding user by username %s: %v", ErrDatabaseError, username, err)
	}
	if email.Valid {
		user.Email = &email.String
	}
	return user, hashedPassword, nil
}

func (r *userRepository) FindUserByID(userID int64) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	user, err := scanUser(r.db.QueryRow(query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by id %d: %v", ErrDatabaseError, userID, err)
	}
	return user, nil
}

func (r *userRepository) GetUsers() ([]models.User, error) {
	rows, err := r.db.Query("SELECT " + userColumns + " FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("%w: getting users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		var email sql.NullString
		if err := rows.Scan(&user.ID, &user.Username, &user.Role, &email, &user.IsActive, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		if email.Valid {
			user.Email = &email.String
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getting users: %v", ErrDatabaseError, err)
	}
	return users, nil
}

// CredentialTaken reports whether the username or email is already held by a
// user other than excludeID.
func (r *userRepository) CredentialTaken(executor SQLExecutor, username string, email *string, excludeID int64) (bool, error) {
	var id int64
	err := executor.QueryRow(
		"SELECT id FROM users WHERE (username = $1 OR email = $2) AND id != $3 LIMIT 1",
		username, email, excludeID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: checking credential collision: %v", ErrDatabaseError, err)
	}
	return true, nil
}

// UpdateUser updates a user row. The stored hash is rewritten only when
// hashedPassword is non-nil.
func (r *userRepository) UpdateUser(executor SQLExecutor, user *models.User, hashedPassword *string) error {
	var (
		result sql.Result
		err    error
	)
	if hashedPassword != nil {
		result, err = executor.Exec(
			`UPDATE users SET username = $1, role = $2, email = $3, password_hash = $4, is_active = $5 WHERE id = $6`,
			user.Username, user.Role, user.Email, *hashedPassword, user.IsActive, user.ID,
		)
	} else {
		result, err = executor.Exec(
			`UPDATE users SET username = $1, role = $2, email = $3, is_active = $4 WHERE id = $5`,
			user.Username, user.Role, user.Email, user.IsActive, user.ID,
		)
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating user %d: %v", ErrDatabaseError, user.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updating user %d: %v", ErrDatabaseError, user.ID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the row. Sales referencing this user keep their rows;
// seller_id nulls via the foreign key.
func (r *userRepository) DeleteUser(executor SQLExecutor, userID int64) error {
	result, err := executor.Exec("DELETE FROM users WHERE id = $1", userID)
	if err != nil {
		return fmt.Errorf("%w: deleting user %d: %v", ErrDatabaseError, userID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting user %d: %v", ErrDatabaseError, userID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
