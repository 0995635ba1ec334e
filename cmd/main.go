/*
Package main is the entry point for the trivia room server.

The root command loads configuration, initializes the global logging system,
builds the question provider, starts the session Hub and the HTTP server, and
gracefully handles operating system interrupt signals (SIGINT, SIGTERM).
The check-bank subcommand validates a question bank file without serving.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"triviaroom/internal/app/game"
	"triviaroom/internal/app/player"
	"triviaroom/internal/app/question"
	"triviaroom/internal/app/session"
	"triviaroom/internal/app/storage"
	"triviaroom/internal/configs"
	"triviaroom/internal/handler"
	"triviaroom/internal/pkg/logx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "triviaroom",
		Short: "Multiplayer trivia chat room server",
		Long: `triviaroom serves the websocket game endpoint and the room inspection API.

All settings come from environment variables (PORT, ENVIRONMENT, QUESTION_SOURCE, ...).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	rootCmd.AddCommand(newCheckBankCmd())

	return rootCmd
}

func newCheckBankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-bank <file>",
		Short: "Validate a question bank file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := question.LoadBankFile(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d questions OK\n", args[0], bank.Len())
			return nil
		},
	}
}

func serve() error {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("question_source", cfg.QuestionSource).
		Str("round_over_policy", cfg.RoundOverPolicy).
		Dur("provider_timeout", cfg.ProviderTimeout).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := buildProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build question provider: %w", err)
	}

	tracker, err := buildTracker(cfg, provider)
	if err != nil {
		return err
	}

	hub := session.NewHub(player.NewRegistry(), tracker)
	go hub.Run()

	// Setup HTTP server and routes
	router := handler.Router(handler.NewAppDeps(hub, cfg))

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logx.Info("Trivia Room Server starting", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	select {
	case <-ctx.Done():
		logx.Info("Received shutdown signal. Starting graceful shutdown...")
	case err := <-serveErr:
		hub.Shutdown()
		return fmt.Errorf("server failed to start: %w", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
	return nil
}

// buildTracker applies the configured timeout and round-over policy.
func buildTracker(cfg *configs.AppConfig, provider question.Provider) (*game.Tracker, error) {
	policy, ok := game.ParseRoundPolicy(cfg.RoundOverPolicy)
	if !ok {
		return nil, fmt.Errorf("unknown round-over policy %q", cfg.RoundOverPolicy)
	}

	return game.NewTracker(provider,
		game.WithTimeout(cfg.ProviderTimeout),
		game.WithPolicy(policy),
	), nil
}

// buildProvider returns the question source selected by QUESTION_SOURCE.
func buildProvider(ctx context.Context, cfg *configs.AppConfig) (question.Provider, error) {
	switch cfg.QuestionSource {
	case configs.SourceOpenTDB:
		return question.NewOpenTDB(cfg.OpenTDBURL, nil), nil

	case configs.SourceS3:
		store, err := storage.NewStorageService(ctx, storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}

		loadCtx, cancel := context.WithTimeout(ctx, cfg.ProviderTimeout)
		defer cancel()

		found, err := store.Exists(loadCtx, cfg.S3BankKey)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("question bank %s not found in bucket %s", cfg.S3BankKey, cfg.S3BucketName)
		}

		return question.LoadBank(loadCtx, store, cfg.S3BankKey)

	default:
		if cfg.QuestionBankPath != "" {
			return question.LoadBankFile(cfg.QuestionBankPath)
		}
		return question.DefaultBank()
	}
}
