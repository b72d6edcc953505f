package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexa-ai/nexa/internal/chat"
	"github.com/nexa-ai/nexa/internal/db"
	"github.com/nexa-ai/nexa/internal/models"
	"github.com/nexa-ai/nexa/internal/persona"
)

// Handler is the JSON-over-HTTP adapter for the chat core. Authentication is
// out of scope: the acting owner arrives as an opaque query parameter.
type Handler struct {
	db             *db.Database
	chat           *chat.Service
	defaultPersona persona.Persona
	logger         *zap.Logger
}

func NewHandler(database *db.Database, chatService *chat.Service, defaultPersona persona.Persona, logger *zap.Logger) *Handler {
	return &Handler{
		db:             database,
		chat:           chatService,
		defaultPersona: defaultPersona,
		logger:         logger,
	}
}

type MessageRequest struct {
	Content  string `json:"content"`
	Sender   string `json:"sender"`
	ImageRef string `json:"image_ref"`
	Persona  string `json:"persona"`
}

type MessageResponse struct {
	Message        *models.Message `json:"message"`
	ConversationID int64           `json:"conversation_id"`
	Title          string          `json:"title"`
}

type CreateConversationRequest struct {
	Title string `json:"title"`
}

type UpdateConversationRequest struct {
	Title string `json:"title"`
}

func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reqID := uuid.NewString()

	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "Query parameter 'owner' is required", http.StatusBadRequest)
		return
	}

	// conversation_id is optional; absent, zero or stale ids start a fresh
	// conversation for the owner.
	convID, _ := strconv.ParseInt(r.URL.Query().Get("conversation_id"), 10, 64)

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sender := req.Sender
	if sender == "" {
		sender = owner
	}
	p := h.defaultPersona
	if req.Persona != "" {
		p = persona.Parse(req.Persona)
	}

	turn, err := h.chat.Send(r.Context(), owner, convID, sender, req.Content, req.ImageRef, p)
	if err != nil {
		var verr *db.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to process message",
			zap.Error(err),
			zap.String("requestID", reqID),
			zap.String("owner", owner))
		http.Error(w, fmt.Sprintf("Failed to process message: %v", err), http.StatusInternalServerError)
		return
	}

	h.logger.Debug("Processed message",
		zap.String("requestID", reqID),
		zap.String("owner", owner),
		zap.Int64("conversationID", turn.ConversationID))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(MessageResponse{
		Message:        turn.Reply,
		ConversationID: turn.ConversationID,
		Title:          turn.Title,
	}); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err), zap.String("requestID", reqID))
	}
}

// GetConversations lists the owner's conversations on GET and creates a new
// conversation on POST.
func (h *Handler) GetConversations(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")

	switch r.Method {
	case http.MethodGet:
		conversations, err := h.db.GetConversations(owner)
		if err != nil {
			h.logger.Error("Failed to get conversations",
				zap.Error(err),
				zap.String("owner", owner))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(conversations); err != nil {
			h.logger.Error("Failed to encode conversations", zap.Error(err))
		}

	case http.MethodPost:
		if owner == "" {
			http.Error(w, "Query parameter 'owner' is required", http.StatusBadRequest)
			return
		}

		var req CreateConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		conversation, err := h.db.CreateConversation(owner)
		if err != nil {
			h.logger.Error("Failed to create conversation", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if req.Title != "" {
			if err := h.db.UpdateConversationTitle(conversation.ID, req.Title); err != nil {
				h.logger.Error("Failed to title conversation", zap.Error(err))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			conversation.Title = req.Title
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(conversation); err != nil {
			h.logger.Error("Failed to encode conversation", zap.Error(err))
		}

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	convID, err := strconv.ParseInt(r.URL.Query().Get("conversation_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	messages, err := h.db.GetMessages(convID)
	if err != nil {
		h.logger.Error("Failed to get messages", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(messages); err != nil {
		h.logger.Error("Failed to encode messages", zap.Error(err))
	}
}

func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	convID, err := strconv.ParseInt(r.URL.Query().Get("conversation_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteConversation(convID); err != nil {
		h.logger.Error("Failed to delete conversation", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) UpdateConversation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	convID, err := strconv.ParseInt(r.URL.Query().Get("conversation_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	var req UpdateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateConversationTitle(convID, req.Title); err != nil {
		h.logger.Error("Failed to update conversation", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
