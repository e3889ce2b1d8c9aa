package services

import (
	"path/filepath"
	"testing"

	"github.com/Zach-Mp4/warbler/internal/database"
	"github.com/Zach-Mp4/warbler/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a throwaway sqlite database with the full schema applied.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "warbler-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

// signupUser creates a user through the real signup path.
func signupUser(t *testing.T, users *UserService, username, email string) models.User {
	t.Helper()
	u, err := users.Signup(username, email, "password", "")
	require.NoError(t, err)
	return u
}
