// Command meritctl administers the merit dataset and answers questions from
// the terminal without running the server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/garyellow/merit-linebot-go/internal/config"
	"github.com/garyellow/merit-linebot-go/internal/logger"
	"github.com/garyellow/merit-linebot-go/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "meritctl",
		Short:         "Manage and query the merit dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newSeedCmd(),
		newAskCmd(),
		newUniversitiesCmd(),
		newPublishCmd(),
	)
	return root
}

// env is what every subcommand needs: the loaded config and an open database.
type env struct {
	cfg *config.Config
	db  *storage.DB
}

// openEnv loads configuration, sends logs to stderr and opens the database.
// The caller closes env.db.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(cfg.LogLevel, cmd.ErrOrStderr())
	slog.SetDefault(log.Logger)

	db, err := storage.New(cmd.Context(), cfg.SQLitePath())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return &env{cfg: cfg, db: db}, nil
}
