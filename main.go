package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/api/option"

	"github.com/koti-agri/koti-backend/database"
	"github.com/koti-agri/koti-backend/internal/config"
	"github.com/koti-agri/koti-backend/internal/handlers"
	"github.com/koti-agri/koti-backend/internal/jobs"
	"github.com/koti-agri/koti-backend/internal/routes"
	"github.com/koti-agri/koti-backend/internal/services"
	"github.com/koti-agri/koti-backend/internal/storage"
	"github.com/koti-agri/koti-backend/internal/utils"
)

func main() {
	// Load .env file for local development
	config.LoadEnvFiles()
	cfg := config.Load()

	logCloser, err := utils.SetupLogging(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to set up logging:", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	slog.Info("initializing Koti farming assistant", "env", cfg.Env, "version", config.Version)

	catalog, err := services.LoadCatalog()
	if err != nil {
		return err
	}
	if cfg.KnowledgeFile != "" {
		if err := catalog.LoadKnowledgeFile(cfg.KnowledgeFile); err != nil {
			slog.Warn("using built-in knowledge table", "file", cfg.KnowledgeFile, "error", err)
		}
	}

	// Conversation log
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Translation backend
	var translator services.Translator = services.NewHeuristicTranslator()
	if cfg.TranslateAPIKey != "" {
		gt, err := services.NewGoogleTranslator(ctx, cfg.TranslationTimeout, option.WithAPIKey(cfg.TranslateAPIKey))
		if err != nil {
			slog.Warn("Google Translate unavailable, falling back to local detection", "error", err)
		} else {
			translator = gt
		}
	}

	// Generation backend
	var model services.TextModel
	if cfg.HasGenerationKey() {
		gm, err := services.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GenerationTimeout)
		if err != nil {
			slog.Error("Gemini client not initialized", "error", err)
		} else {
			defer gm.Close()
			model = gm
		}
	} else {
		slog.Warn("GEMINI_API_KEY not set, answers will report the service as unavailable")
	}

	language := services.NewLanguageProcessor(catalog, translator, cfg.WorkingLanguage)
	generator := services.NewAnswerGenerator(catalog, model)
	sessions := services.NewSessionManager(cfg.SessionMaxAge, catalog.Primary, catalog.LanguageTags())
	bot := services.NewChatbot(
		catalog,
		services.NewInputValidator(cfg.MaxInputLength),
		language,
		generator,
		sessions,
		store,
	)

	// WhatsApp channel
	var sender services.MessageSender
	if cfg.HasTwilio() {
		twilioService, err := services.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
		if err != nil {
			slog.Warn("Twilio service not initialized", "error", err)
		} else {
			sender = twilioService
		}
	} else {
		slog.Warn("Twilio credentials not found, WhatsApp replies will only be logged")
	}

	health := handlers.NewHealthHandler(config.Version, generator.Available, map[string]handlers.ComponentCheck{
		"translator":       func() string { return language.TranslatorName() },
		"conversation_log": func() string { return store.Name() },
	})

	app := routes.NewApp(cfg, routes.Dependencies{
		Bot:     bot,
		Sender:  sender,
		Sweeper: jobs.NewSessionSweepJob(sessions, cfg.SessionMaxAge, cfg.SessionSweepOneIn),
		Health:  health,
	})

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		slog.Info("gracefully shutting down")
		_ = app.Shutdown()
	}()

	slog.Info("Koti backend starting",
		"port", cfg.Port,
		"working_language", language.WorkingLanguage(),
		"translator", language.TranslatorName(),
		"generator_ready", generator.Available(),
		"conversation_log", store.Name(),
		"whatsapp", sender != nil,
	)

	return app.Listen(":" + cfg.Port)
}

func openStore(cfg *config.Config) (storage.ConversationStore, error) {
	switch cfg.ConversationStore {
	case config.StoreMemory:
		slog.Warn("using in-memory conversation log (not for production!)")
		return storage.NewMemoryStore(cfg.ChatLogMaxEntries), nil
	case config.StorePostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		dbStore, err := storage.NewDBStore(db, cfg.ChatLogMaxEntries)
		if err != nil {
			return nil, err
		}
		return dbStore, nil
	case config.StoreFile:
		fileStore, err := storage.NewFileStore(cfg.ChatLogFile, cfg.ChatLogMaxEntries)
		if err != nil {
			return nil, err
		}
		return fileStore, nil
	default:
		return nil, fmt.Errorf("unknown CONVERSATION_STORE %q", cfg.ConversationStore)
	}
}
