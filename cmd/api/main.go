package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/crtlab/crt-chat/backend/internal/config"
	"github.com/crtlab/crt-chat/backend/internal/handler"
	"github.com/crtlab/crt-chat/backend/internal/script"
	"github.com/crtlab/crt-chat/backend/internal/service/ai"
	"github.com/crtlab/crt-chat/backend/internal/service/pipeline"
	"github.com/crtlab/crt-chat/backend/internal/turnlog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The behavioral script is rendered once and shared read-only by every
	// request for the lifetime of the process.
	directive := script.BuildDirective(script.Seed())

	if !cfg.AI.Enabled() {
		log.Fatal("model credentials required: set ARK_API_KEY + Model or the AK/SK pair")
	}
	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to create chat model: %v", err)
	}

	aiService, err := ai.NewService(ctx, chatModel, ai.Config{
		Directive:  directive,
		Timeout:    cfg.AI.Timeout,
		RetryDelay: cfg.AI.RetryDelay,
		ModelName:  cfg.AI.Model,
	})
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}
	log.Println("AI service initialized successfully")

	store, err := buildTurnLog(ctx, cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize turn log: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("warning: closing turn log: %v", err)
		}
	}()
	log.Printf("turn log initialized, store=%s arm=%s", cfg.Log.Store, cfg.Study.Arm)

	pipe := pipeline.NewService(store, aiService, cfg.Study.Arm)
	router := handler.NewRouter(pipe, cfg.Study)

	startServer(ctx, cfg.Server, router)
}

// buildTurnLog dials the configured store and wraps the drivers that talk to
// a remote service with the local file backup, so a store outage degrades to
// backup rows instead of lost turns.
func buildTurnLog(ctx context.Context, cfg config.LogConfig) (turnlog.Log, error) {
	switch turnlog.StoreType(cfg.Store) {
	case turnlog.StoreTypeMemory:
		return turnlog.New(turnlog.StoreTypeMemory)

	case turnlog.StoreTypeFile:
		return turnlog.New(turnlog.StoreTypeFile, turnlog.WithFilePath(cfg.FilePath))

	case turnlog.StoreTypeSheets:
		svc, err := sheets.NewService(ctx,
			option.WithCredentialsFile(cfg.GoogleCredsFile),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
		if err != nil {
			return nil, fmt.Errorf("create sheets service: %w", err)
		}
		primary, err := turnlog.New(turnlog.StoreTypeSheets,
			turnlog.WithSheetsService(svc),
			turnlog.WithSheet(cfg.SheetID, cfg.SheetRange),
		)
		if err != nil {
			return nil, err
		}
		return withFileBackup(primary, cfg.BackupPath)

	case turnlog.StoreTypeSupabase:
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)
		if err != nil {
			return nil, fmt.Errorf("create supabase client: %w", err)
		}
		primary, err := turnlog.New(turnlog.StoreTypeSupabase,
			turnlog.WithSupabaseClient(client),
			turnlog.WithSupabaseTable(cfg.SupabaseTable),
		)
		if err != nil {
			return nil, err
		}
		return withFileBackup(primary, cfg.BackupPath)

	case turnlog.StoreTypeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		primary, err := turnlog.New(turnlog.StoreTypeRedis,
			turnlog.WithRedisClient(client),
			turnlog.WithRedisKey(cfg.RedisKey),
		)
		if err != nil {
			return nil, err
		}
		return withFileBackup(primary, cfg.BackupPath)

	default:
		return nil, turnlog.ErrInvalidStoreType
	}
}

func withFileBackup(primary turnlog.Log, backupPath string) (turnlog.Log, error) {
	backup, err := turnlog.New(turnlog.StoreTypeFile, turnlog.WithFilePath(backupPath))
	if err != nil {
		return nil, fmt.Errorf("open backup log: %w", err)
	}
	return turnlog.NewFallback(primary, backup), nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("CRT chat backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
