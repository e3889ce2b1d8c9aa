package services

import (
	"github.com/Zach-Mp4/warbler/internal/database"
	"github.com/Zach-Mp4/warbler/internal/models"
	"github.com/jmoiron/sqlx"
)

// FollowServiceProvider defines the interface for follow-graph services.
type FollowServiceProvider interface {
	Follow(followerID, followedID int64) error
	Unfollow(followerID, followedID int64) error
	IsFollowing(followerID, followedID int64) (bool, error)
	IsFollowedBy(userID, otherID int64) (bool, error)
	FollowersOf(userID int64) ([]models.User, error)
	FollowingOf(userID int64) ([]models.User, error)
}

// FollowService provides business logic for the directed follow graph. Edges
// are unweighted and unrestricted: "A follows B" says nothing about B, and a
// user may follow themselves.
type FollowService struct {
	db *sqlx.DB
}

// NewFollowService creates a new FollowService.
func NewFollowService(db *sqlx.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow adds the directed edge follower -> followed. Following someone
// already followed is a no-op; the composite primary key also collapses
// racing duplicate follows into a single edge. An unknown endpoint yields
// ErrNotFound.
func (s *FollowService) Follow(followerID, followedID int64) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO follows (follower_id, followed_id) VALUES (?, ?)",
		followerID, followedID,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return models.ErrNotFound
		}
		return err
	}
	return nil
}

// Unfollow removes the directed edge follower -> followed. Removing an edge
// that does not exist is a no-op.
func (s *FollowService) Unfollow(followerID, followedID int64) error {
	_, err := s.db.Exec(
		"DELETE FROM follows WHERE follower_id = ? AND followed_id = ?",
		followerID, followedID,
	)
	return err
}

// IsFollowing reports whether the edge follower -> followed exists.
func (s *FollowService) IsFollowing(followerID, followedID int64) (bool, error) {
	var exists bool
	err := s.db.Get(&exists,
		"SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ?)",
		followerID, followedID,
	)
	return exists, err
}

// IsFollowedBy reports whether other follows user, i.e. the edge
// other -> user exists.
func (s *FollowService) IsFollowedBy(userID, otherID int64) (bool, error) {
	return s.IsFollowing(otherID, userID)
}

// FollowersOf returns the users following the given user, ordered by
// username. The result is a snapshot, not a live view.
func (s *FollowService) FollowersOf(userID int64) ([]models.User, error) {
	users := []models.User{}
	err := s.db.Select(&users, `
		SELECT u.id, u.username, u.email, u.bio, u.image_url, u.header_image_url, u.created_at
		FROM users u
		JOIN follows f ON f.follower_id = u.id
		WHERE f.followed_id = ?
		ORDER BY u.username`, userID)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FollowingOf returns the users the given user follows, ordered by username.
func (s *FollowService) FollowingOf(userID int64) ([]models.User, error) {
	users := []models.User{}
	err := s.db.Select(&users, `
		SELECT u.id, u.username, u.email, u.bio, u.image_url, u.header_image_url, u.created_at
		FROM users u
		JOIN follows f ON f.followed_id = u.id
		WHERE f.follower_id = ?
		ORDER BY u.username`, userID)
	if err != nil {
		return nil, err
	}
	return users, nil
}
