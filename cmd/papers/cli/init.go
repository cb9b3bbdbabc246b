package cli

import (
	"github.com/spf13/cobra"

	"papers/pkg/repo"
)

func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialise a new paper repository",
		Long:  "Create the database for a new paper repository in the given directory (default the current directory). Fails if the directory already holds a repository.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			r, err := repo.Init(cmd.Context(), dir, cfg.DBFilename)
			if err != nil {
				return err
			}
			defer r.Close()

			logger.Info("Initialised repository in %s", r.Root())
			return nil
		},
	}
}
