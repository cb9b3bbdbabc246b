package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"papers/pkg/db/store"
	"papers/pkg/repo"
)

func NewRemoveCommand() *cobra.Command {
	var (
		withFile bool
		hard     bool
	)

	cmd := &cobra.Command{
		Use:   "remove <ids>",
		Short: "Remove papers from being tracked",
		Long:  "Soft-delete papers: they disappear from listings and search but their rows are kept. --hard removes the rows and all attached tags, labels, authors and notes. --with-file also deletes the stored file when no other paper references it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}

			r, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer r.Close()

			for _, id := range ids {
				paper, err := r.Store().GetPaper(cmd.Context(), id, true)
				if errors.Is(err, store.ErrNotFound) {
					logger.Info("No paper with id %d to remove", id)
					continue
				}
				if err != nil {
					return err
				}

				if hard {
					err = r.Store().HardDeletePaper(cmd.Context(), id)
				} else {
					err = r.Store().SoftDeletePaper(cmd.Context(), id)
				}
				if err != nil {
					return err
				}
				logger.Info("Removed paper %d", id)

				if withFile && paper.Filename != nil {
					if err := removeFile(cmd.Context(), r, id, *paper.Filename, logger.Info, logger.Warn); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withFile, "with-file", false, "Also remove the stored file")
	cmd.Flags().BoolVar(&hard, "hard", false, "Remove the database rows instead of soft-deleting")

	return cmd
}

// removeFile deletes a stored file unless another paper still references
// it. Soft-deleted papers count as references: their rows are kept for
// undo, so the file they point at must survive too.
func removeFile(ctx context.Context, r *repo.Repo, removedID uint, filename string, info, warn func(string, ...any)) error {
	papers, err := r.Store().ListPapers(ctx, store.ListFilter{IncludeDeleted: true})
	if err != nil {
		return err
	}
	for _, other := range papers {
		if other.ID == removedID {
			continue
		}
		if other.Filename != nil && *other.Filename == filename {
			warn("Keeping %s, it is still used by paper %d", filename, other.ID)
			return nil
		}
	}

	path := filepath.Join(r.Root(), filepath.FromSlash(filename))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	info("Removed file %s", filename)
	return nil
}
