package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Zach-Mp4/warbler/internal/auth"
	"github.com/Zach-Mp4/warbler/internal/models"
	"github.com/Zach-Mp4/warbler/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles HTTP requests for messages.
type MessageHandler struct {
	messages services.MessageServiceProvider
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages services.MessageServiceProvider) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// CreatePayload defines the structure for message-creation requests.
type CreatePayload struct {
	Text string `json:"text"`
}

// Create handles posting a new message as the current user.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from session", http.StatusInternalServerError)
		return
	}

	var payload CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messages.CreateMessage(claims.UserID, payload.Text)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to create message")
		http.Error(w, "Failed to create message: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// Get handles retrieving a single message by ID.
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	msg, err := h.messages.GetMessage(id)
	if err != nil {
		http.Error(w, "Message not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msg)
}

// ListForUser handles listing a user's messages, newest first.
func (h *MessageHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	msgs, err := h.messages.MessagesOf(id)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to list messages")
		http.Error(w, "Failed to list messages", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msgs)
}

// Delete handles deleting one of the current user's own messages.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from session", http.StatusInternalServerError)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	if err := h.messages.DeleteMessage(id, claims.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Message not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("message_id", id).Msg("Failed to delete message")
		http.Error(w, "Failed to delete message", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
