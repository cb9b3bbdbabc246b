package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"papers/internal/config"
	"papers/pkg/db/models"
	"papers/pkg/log"
	"papers/pkg/repo"
)

// setup loads the effective configuration and builds the base logger.
func setup() (*config.Config, log.LoggerService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, log.NewLoggerService("papers", cfg.Log), nil
}

// openRepo opens the repository for this invocation: the --repo flag if
// given, otherwise the nearest repository above the working directory,
// otherwise the configured default repo.
func openRepo(ctx context.Context, cfg *config.Config) (*repo.Repo, error) {
	if dir := viper.GetString("repo"); dir != "" {
		return repo.Open(ctx, dir, cfg.DBFilename)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if root, err := repo.Discover(cwd, cfg.DBFilename); err == nil {
		return repo.Open(ctx, root, cfg.DBFilename)
	}
	return repo.Open(ctx, cfg.DefaultRepo, cfg.DBFilename)
}

// mergeTags combines configured default tags with flag-given ones.
func mergeTags(cfg *config.Config, flags []string) ([]string, error) {
	return models.ParseTags(append(append([]string{}, cfg.Defaults.Tags...), flags...))
}

// mergeLabels combines configured default labels with flag-given ones;
// a flag label overrides a default with the same key.
func mergeLabels(cfg *config.Config, flags []string) ([]models.Label, error) {
	return models.ParseLabels(append(append([]string{}, cfg.Defaults.Labels...), flags...))
}

// forEachPaper opens the repository and applies fn to every id, warning
// and continuing on per-paper failures. The command fails if any id did.
func forEachPaper(cmd *cobra.Command, ids []uint, action string, fn func(r *repo.Repo, id uint) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	r, err := openRepo(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	failed := 0
	for _, id := range ids {
		if err := fn(r, id); err != nil {
			logger.Warn("Failed to %s for paper %d: %v", action, id, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to %s for %d of %d papers", action, failed, len(ids))
	}
	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optional maps a flag value to a tri-state update field: unset flags
// leave the column alone, empty strings clear it.
func optional(changed bool, value string) *string {
	if !changed {
		return nil
	}
	return &value
}
