package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Zach-Mp4/warbler/internal/auth"
	"github.com/Zach-Mp4/warbler/internal/models"
	"github.com/Zach-Mp4/warbler/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user listing, profiles, and the
// follow graph.
type UserHandler struct {
	users   services.UserServiceProvider
	follows services.FollowServiceProvider
	secure  bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, follows services.FollowServiceProvider, secure bool) *UserHandler {
	return &UserHandler{users: users, follows: follows, secure: secure}
}

func userID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// List handles retrieving all users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// Get handles retrieving a user's public profile by ID. Profiles are visible
// to anonymous visitors.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByID(id)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("Failed to get user by ID")
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// GetFollowing handles listing the users that {id} follows.
func (h *UserHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	users, err := h.follows.FollowingOf(id)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to list following")
		http.Error(w, "Failed to list following", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// GetFollowers handles listing the users following {id}.
func (h *UserHandler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	users, err := h.follows.FollowersOf(id)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to list followers")
		http.Error(w, "Failed to list followers", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// Follow makes the current user follow {id}.
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from session", http.StatusInternalServerError)
		return
	}
	id, err := userID(r)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.follows.Follow(claims.UserID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("follower_id", claims.UserID).Int64("followed_id", id).Msg("Failed to follow user")
		http.Error(w, "Failed to follow user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StopFollowing makes the current user unfollow {id}. Unfollowing someone not
// followed succeeds with no effect.
func (h *UserHandler) StopFollowing(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from session", http.StatusInternalServerError)
		return
	}
	id, err := userID(r)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.follows.Unfollow(claims.UserID, id); err != nil {
		log.Error().Err(err).Int64("follower_id", claims.UserID).Int64("followed_id", id).Msg("Failed to unfollow user")
		http.Error(w, "Failed to unfollow user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProfile handles retrieving the current user's own profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from session", http.StatusInternalServerError)
		return
	}

	user, err := h.users.GetUserByID(claims.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("User from session not found in DB")
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// EditProfilePayload defines the structure for profile-edit requests. The
// current password must be re-entered to confirm the change.
type EditProfilePayload struct {
	models.ProfileUpdate
	Password string `json:"password"`
}

// UpdateProfile handles editing the current user's profile. A wrong
// confirmation password rejects the whole edit and changes nothing.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from session", http.StatusInternalServerError)
		return
	}

	var payload EditProfilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.UpdateProfile(claims.UserID, payload.ProfileUpdate, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAuthenticationFailure):
			log.Warn().Int64("user_id", claims.UserID).Msg("Profile edit with wrong confirmation password")
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		case errors.Is(err, models.ErrDuplicateIdentity):
			http.Error(w, "Username or email already taken", http.StatusConflict)
		default:
			log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to update profile")
			http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Delete handles the permanent deletion of the current user's account. Follow
// edges and messages go with it.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from session", http.StatusInternalServerError)
		return
	}

	if err := h.users.DeleteUser(claims.UserID); err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to delete user")
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	// Session is gone with the account
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	w.WriteHeader(http.StatusNoContent)
}
