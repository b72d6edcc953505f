package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nexa-ai/nexa/internal/api"
	"github.com/nexa-ai/nexa/internal/chat"
	"github.com/nexa-ai/nexa/internal/config"
	"github.com/nexa-ai/nexa/internal/db"
	"github.com/nexa-ai/nexa/internal/llm"
	"github.com/nexa-ai/nexa/internal/news"
	"github.com/nexa-ai/nexa/internal/persona"
)

const newsRequestTimeout = 8 * time.Second

func main() {
	logger, _ := zap.NewProduction()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("dbPath", cfg.DBPath))
	}
	defer func() {
		if cerr := multierr.Combine(database.Close(), logger.Sync()); cerr != nil {
			fmt.Fprintln(os.Stderr, "shutdown:", cerr)
		}
	}()

	// Without credentials the gateway stays nil and every reply uses the
	// local persona fallback, matching the no-API-key deployment mode.
	var gateway llm.Gateway
	if cfg.OpenAIAPIKey != "" {
		gw, err := llm.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.Model,
			time.Duration(cfg.GatewayTimeoutSeconds)*time.Second)
		if err != nil {
			logger.Fatal("failed to initialize LLM gateway", zap.Error(err))
		}
		gateway = gw
	} else {
		logger.Warn("OPENAI_API_KEY not set, replies will use local persona fallbacks")
	}

	newsClient := news.NewClient(cfg.GNewsBaseURL, cfg.GNewsAPIKey, newsRequestTimeout)
	assembler := chat.NewAssembler(cfg.ContextTokenBudget)
	chatService := chat.NewService(database, gateway, newsClient, assembler, logger)
	handler := api.NewHandler(database, chatService, persona.Parse(cfg.DefaultPersona), logger)

	http.HandleFunc("/api/message", handler.HandleMessage)
	http.HandleFunc("/api/conversations", handler.GetConversations)
	http.HandleFunc("/api/messages", handler.GetMessages)
	http.HandleFunc("/api/conversations/delete", handler.DeleteConversation)
	http.HandleFunc("/api/conversations/update", handler.UpdateConversation)

	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
