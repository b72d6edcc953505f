// Package chat runs a single conversation turn end to end: persist the user
// message, title fresh conversations, assemble context, obtain a reply and
// persist it.
package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/nexa-ai/nexa/internal/db"
	"github.com/nexa-ai/nexa/internal/llm"
	"github.com/nexa-ai/nexa/internal/models"
	"github.com/nexa-ai/nexa/internal/news"
	"github.com/nexa-ai/nexa/internal/persona"
	"github.com/nexa-ai/nexa/internal/title"
)

const (
	titleWords   = 5
	newsPrefix   = "news:"
	maxHeadlines = 4
)

type Service struct {
	db        *db.Database
	gateway   llm.Gateway // nil without credentials; replies use persona fallbacks
	news      *news.Client
	assembler *Assembler
	logger    *zap.Logger
}

func NewService(database *db.Database, gateway llm.Gateway, newsClient *news.Client, assembler *Assembler, logger *zap.Logger) *Service {
	return &Service{
		db:        database,
		gateway:   gateway,
		news:      newsClient,
		assembler: assembler,
		logger:    logger,
	}
}

// Turn is the observable result of one Send call.
type Turn struct {
	ConversationID int64           `json:"conversation_id"`
	Title          string          `json:"title"`
	Reply          *models.Message `json:"reply"`
}

// Send appends the user's message to the conversation (creating one for the
// owner when the id is zero, unknown or foreign), auto-titles untitled
// conversations from the first message, obtains a reply and appends it.
// Gateway failures degrade to the persona's local reply; they never fail the
// turn or corrupt stored state.
func (s *Service) Send(ctx context.Context, owner string, conversationID int64, sender, text, imageRef string, p persona.Persona) (*Turn, error) {
	conv, err := s.ensureConversation(owner, conversationID)
	if err != nil {
		return nil, err
	}

	userMsg := &models.Message{
		ConvID:   conv.ID,
		Sender:   sender,
		Role:     models.RoleUser,
		Content:  text,
		ImageRef: imageRef,
	}
	if err := s.db.SaveMessage(userMsg); err != nil {
		return nil, err
	}

	// Blank messages derive the placeholder; storing that would consume the
	// one-shot auto-title while the conversation still looks untitled.
	if derived := title.Derive(text, titleWords); derived != models.DefaultTitle {
		if err := s.db.RenameIfDefault(conv.ID, derived); err != nil {
			return nil, err
		}
	}

	reply, err := s.replyFor(ctx, conv.ID, text, p)
	if err != nil {
		return nil, err
	}

	assistantMsg := &models.Message{
		ConvID:  conv.ID,
		Sender:  "assistant",
		Role:    models.RoleAssistant,
		Content: reply,
	}
	if err := s.db.SaveMessage(assistantMsg); err != nil {
		return nil, err
	}

	conv, err = s.db.GetConversation(conv.ID, owner)
	if err != nil {
		return nil, err
	}
	return &Turn{ConversationID: conv.ID, Title: conv.Title, Reply: assistantMsg}, nil
}

func (s *Service) ensureConversation(owner string, conversationID int64) (*models.Conversation, error) {
	if conversationID != 0 {
		conv, err := s.db.GetConversation(conversationID, owner)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, db.ErrConversationNotFound) {
			return nil, err
		}
	}
	return s.db.CreateConversation(owner)
}

// replyFor picks the reply source for one turn. The returned error covers
// storage reads only; gateway and news failures degrade to local replies.
func (s *Service) replyFor(ctx context.Context, conversationID int64, text string, p persona.Persona) (string, error) {
	if len(text) >= len(newsPrefix) && strings.EqualFold(text[:len(newsPrefix)], newsPrefix) {
		topic := strings.TrimSpace(text[len(newsPrefix):])
		headlines, err := s.news.Search(ctx, topic, maxHeadlines)
		if err != nil {
			s.logger.Warn("news lookup failed", zap.Error(err), zap.String("topic", topic))
			return "News fetch error: " + err.Error(), nil
		}
		return headlines, nil
	}

	if s.gateway == nil {
		return p.Fallback(text), nil
	}

	history, err := s.db.GetMessages(conversationID)
	if err != nil {
		return "", err
	}

	payload := s.assembler.BuildPayload(p.Instruction(), history)
	reply, err := s.gateway.Generate(ctx, payload)
	if err != nil {
		s.logger.Warn("gateway unavailable, using persona fallback",
			zap.Error(err),
			zap.Int64("conversationID", conversationID))
		return p.Fallback(text), nil
	}
	return reply, nil
}
