package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"papers/pkg/db/models"
)

func NewShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show all information about a paper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}
			if len(ids) != 1 {
				return fmt.Errorf("show displays one paper at a time")
			}

			r, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer r.Close()

			// Soft-deleted papers show too, their rows are kept for this.
			paper, err := r.Store().GetPaper(cmd.Context(), ids[0], true)
			if err != nil {
				return err
			}
			return renderPapers(cmd.OutOrStdout(), output, []models.Paper{*paper})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output style: "+outputStyles)

	return cmd
}
