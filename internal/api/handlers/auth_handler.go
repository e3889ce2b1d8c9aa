package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Zach-Mp4/warbler/internal/auth"
	"github.com/Zach-Mp4/warbler/internal/models"
	"github.com/Zach-Mp4/warbler/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup, login, and logout.
type AuthHandler struct {
	users  services.UserServiceProvider
	tokens *auth.TokenManager
	secure bool
}

// NewAuthHandler creates a new AuthHandler. secure controls the Secure flag
// on session cookies.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenManager, secure bool) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, secure: secure}
}

// SignupPayload defines the structure for signup requests.
type SignupPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	ImageURL string `json:"imageUrl"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup handles new user registration and logs the new user in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Signup(payload.Username, payload.Email, payload.Password, payload.ImageURL)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateIdentity) {
			log.Warn().Str("username", payload.Username).Msg("Signup with taken username or email")
			http.Error(w, "Username or email already taken", http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to sign up user")
		http.Error(w, "Failed to sign up: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.setSession(w, user); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate session token")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login handles user authentication and session creation. Unknown usernames
// and wrong passwords produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(payload.Username, payload.Password)
	if err != nil {
		log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := h.setSession(w, user); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate session token")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
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

func (h *AuthHandler) setSession(w http.ResponseWriter, user models.User) error {
	token, err := h.tokens.Generate(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.tokens.Validity()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	return nil
}
