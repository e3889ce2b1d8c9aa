package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Zach-Mp4/warbler/internal/auth"
	"github.com/Zach-Mp4/warbler/internal/database"
	"github.com/Zach-Mp4/warbler/internal/models"
	"github.com/jmoiron/sqlx"
)

// userColumns is the column list for reads that must not load the password
// hash.
const userColumns = "id, username, email, bio, image_url, header_image_url, created_at"

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(username, email, password, imageURL string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	GetUserByID(id int64) (models.User, error)
	ListUsers() ([]models.User, error)
	UpdateProfile(id int64, update models.ProfileUpdate, confirmPassword string) (models.User, error)
	DeleteUser(id int64) error
}

// UserService provides business logic for accounts: signup, authentication,
// profile edits, and deletion.
type UserService struct {
	db *sqlx.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sqlx.DB) *UserService {
	return &UserService{db: db}
}

// dummyDigest is compared against when a username does not exist, so a login
// attempt costs the same whether or not the account is real.
var dummyDigest = func() string {
	d, err := auth.HashPassword("warbler")
	if err != nil {
		panic(err)
	}
	return d
}()

// Signup creates a new user with a hashed password. Username and email
// collisions are not pre-checked; the unique constraint reports them at
// insert time as ErrDuplicateIdentity.
func (s *UserService) Signup(username, email, password, imageURL string) (models.User, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("username, email and password are required")
	}
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.Exec(
		"INSERT INTO users (username, email, password_hash, image_url, header_image_url) VALUES (?, ?, ?, ?, ?)",
		username, email, digest, imageURL, models.DefaultHeaderImageURL,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, models.ErrDuplicateIdentity
		}
		return models.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// Authenticate verifies a user's credentials. An unknown username and a wrong
// password both come back as ErrAuthenticationFailure; a bcrypt comparison
// runs in either case so response time does not leak account existence.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	var user models.User
	err := s.db.Get(&user,
		"SELECT "+userColumns+", password_hash FROM users WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		auth.CheckPassword(password, dummyDigest)
		return models.User{}, models.ErrAuthenticationFailure
	}
	if err != nil {
		return models.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, models.ErrAuthenticationFailure
	}

	// Don't hand the hash back to callers
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	err := s.db.Get(&user, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ListUsers retrieves all users, ordered by username.
func (s *UserService) ListUsers() ([]models.User, error) {
	users := []models.User{}
	err := s.db.Select(&users, "SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile applies a partial edit to a user's profile after re-verifying
// their current password. A wrong confirmation password leaves the record
// unmodified and returns ErrAuthenticationFailure. Empty string fields keep
// their current value; Bio is a pointer so it can be cleared explicitly.
func (s *UserService) UpdateProfile(id int64, update models.ProfileUpdate, confirmPassword string) (models.User, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	var digest string
	err = tx.Get(&digest, "SELECT password_hash FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	if !auth.CheckPassword(confirmPassword, digest) {
		return models.User{}, models.ErrAuthenticationFailure
	}

	_, err = tx.Exec(`
		UPDATE users SET
			username = COALESCE(NULLIF(?, ''), username),
			email = COALESCE(NULLIF(?, ''), email),
			bio = COALESCE(?, bio),
			image_url = COALESCE(NULLIF(?, ''), image_url),
			header_image_url = COALESCE(NULLIF(?, ''), header_image_url)
		WHERE id = ?`,
		update.Username, update.Email, update.Bio, update.ImageURL, update.HeaderImageURL, id,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, models.ErrDuplicateIdentity
		}
		return models.User{}, err
	}

	var user models.User
	if err := tx.Get(&user, "SELECT "+userColumns+" FROM users WHERE id = ?", id); err != nil {
		return models.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes a user. Follow edges and authored messages referencing
// the user are removed by the store's cascading foreign keys.
func (s *UserService) DeleteUser(id int64) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
