package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"supportbot/internal/chat"
	"supportbot/internal/config"
	"supportbot/internal/db"
	"supportbot/internal/email"
	"supportbot/internal/format"
	"supportbot/internal/jobs"
	"supportbot/internal/knowledge"
	"supportbot/internal/metrics"
	"supportbot/internal/server"
	"supportbot/internal/validation"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Chat copy overrides
	chatCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	if valid, msg := validation.ValidateURL(cfg.SupportURL); !valid {
		log.Fatalf("Invalid SUPPORT_URL: %s", msg)
	}

	store := loadKnowledge(cfg)
	log.Printf("Knowledge base loaded: %d entries in %d categories", store.Len(), len(store.Categories()))

	// Initialize database (optional)
	var database *db.DB
	var metricsStore metrics.Store
	if cfg.IsAnalyticsEnabled() {
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Migrations completed successfully")
		metricsStore = database
	} else {
		log.Println("Question analytics disabled. Set DATABASE_URL to enable.")
	}

	recorder, err := metrics.NewRecorder(prometheus.DefaultRegisterer, metricsStore)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	formatter := format.New(cfg.SupportURL,
		format.WithTopics(chatCfg.Topics()),
		format.WithExamples(chatCfg.Examples()),
	)
	svc := chat.NewService(store, formatter, recorder)

	// Background jobs
	if database != nil {
		go jobs.NewRetentionJob(database, cfg.RetentionCheck, cfg.RetentionPeriod).Start(ctx)

		notifier := email.NewNotifier(cfg, database)
		if notifier.IsEnabled() {
			go jobs.NewDigestJob(notifier, cfg.DigestInterval).Start(ctx)
		} else {
			log.Println("Unanswered question digest disabled. Set SMTP_HOST, SMTP_FROM and DIGEST_TO to enable.")
		}
	}

	var links *jobs.LinkChecker
	if cfg.LinkCheck > 0 {
		links = jobs.NewLinkChecker(jobs.LinkTargets(store,
			jobs.LinkTarget{URL: cfg.SupportURL, Sources: []string{"support"}},
			jobs.LinkTarget{URL: cfg.DocsURL, Sources: []string{"docs"}},
		), cfg.LinkCheck)
		go links.Start(ctx)
	}

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, svc, links, chatCfg); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	recorder.Wait()
	log.Println("Server exited")
}

// loadKnowledge reads KNOWLEDGE_FILE, or the embedded knowledge base when
// unset. A broken knowledge base leaves the bot running with an empty store
// so every question gets the fallback answer.
func loadKnowledge(cfg *config.Config) *knowledge.Store {
	var (
		store *knowledge.Store
		err   error
	)
	if cfg.KnowledgeFile != "" {
		store, err = knowledge.LoadFile(cfg.KnowledgeFile)
	} else {
		store, err = knowledge.Default()
	}
	if err != nil {
		log.Printf("Warning: %v; answering every question with the fallback message", err)
		return knowledge.Empty()
	}
	return store
}
