package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	server "github.com/TerminallyLazy/kanban-zero/internal"
	"github.com/TerminallyLazy/kanban-zero/internal/activity"
	activityrepo "github.com/TerminallyLazy/kanban-zero/internal/activity/repositoryimpl"
	"github.com/TerminallyLazy/kanban-zero/internal/anthropic"
	"github.com/TerminallyLazy/kanban-zero/internal/config"
	"github.com/TerminallyLazy/kanban-zero/internal/db"
	"github.com/TerminallyLazy/kanban-zero/internal/eventbus"
	"github.com/TerminallyLazy/kanban-zero/internal/parser"
	"github.com/TerminallyLazy/kanban-zero/internal/tag"
	tagrepo "github.com/TerminallyLazy/kanban-zero/internal/tag/repositoryimpl"
	"github.com/TerminallyLazy/kanban-zero/internal/task"
	taskrepo "github.com/TerminallyLazy/kanban-zero/internal/task/repositoryimpl"
	"github.com/TerminallyLazy/kanban-zero/pkg/clog"
	"github.com/TerminallyLazy/kanban-zero/pkg/panicerr"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	// Setup storage
	conn, err := db.Open(env.DBEnv.Path)
	if err != nil {
		slog.Error("failed to open database", "path", env.DBEnv.Path, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	// Setup event bus
	bus := eventbus.New()

	// Setup repositories
	taskRepo := taskrepo.NewSQLiteRepository(conn)
	tagRepo := tagrepo.NewSQLiteRepository(conn)
	activityRepo := activityrepo.NewSQLiteRepository(conn)

	// Setup parser
	completer := anthropic.NewClient(env.AnthropicEnv.APIKey, env.AnthropicEnv.BaseURL, env.AnthropicEnv.Model)
	taskParser := parser.New(completer, env.AnthropicEnv.ParseTimeout)

	// Setup servers
	taskServer := task.NewServer(taskRepo, tagRepo, taskParser, bus)
	tagServer := tag.NewServer(tagRepo)
	activityServer := activity.NewServer(activityRepo)

	srv := server.NewServer(env, taskServer, tagServer, activityServer)

	// Setup activity recorder
	recorder := activity.NewRecorder(bus, activityRepo)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	go func() {
		if err := panicerr.SafeContext(recorder.Start)(ctx); err != nil {
			slog.Error("activity recorder error", "error", err)
		}
	}()

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
