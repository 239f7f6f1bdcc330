// Command cleanup-notes deletes notes that were stored without an owner id
// and reports how many notes remain.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdkhajajamaludin/wellness/internal/config"
	"github.com/mdkhajajamaludin/wellness/internal/database"
	"github.com/mdkhajajamaludin/wellness/internal/logging"
	"github.com/mdkhajajamaludin/wellness/internal/repository"
)

type orphanStore interface {
	CountOrphans(ctx context.Context) (int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

func main() {
	dryRun := flag.Bool("dry-run", false, "report orphan notes without deleting them")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	_ = config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("prod", "info", os.Stderr)
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(cfg.Env, cfg.LogLevel, os.Stderr)

	dialect, err := database.DialectFor(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database driver")
	}
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, repository.NewNoteRepo(db, dialect), *dryRun, log); err != nil {
		log.Error().Err(err).Msg("notes cleanup failed")
		db.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, notes orphanStore, dryRun bool, log zerolog.Logger) error {
	log.Info().Bool("dry_run", dryRun).Msg("starting notes cleanup")

	if dryRun {
		n, err := notes.CountOrphans(ctx)
		if err != nil {
			return err
		}
		log.Info().Int64("orphans", n).Msg("notes without a user_id (not deleted)")
	} else {
		n, err := notes.DeleteOrphans(ctx)
		if err != nil {
			return err
		}
		log.Info().Int64("deleted", n).Msg("deleted notes without a user_id")
	}

	remaining, err := notes.Count(ctx)
	if err != nil {
		return err
	}
	log.Info().Int64("remaining", remaining).Msg("notes remaining in database")
	return nil
}
