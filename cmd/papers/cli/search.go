package cli

import (
	"github.com/spf13/cobra"
)

func NewSearchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "search <substring>",
		Short: "Search papers by substring",
		Long:  "Find non-deleted papers whose title, url, filename, tags, label values or notes contain the given substring. Matching is literal (no wildcards) and ignores ASCII case.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			r, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer r.Close()

			papers, err := r.Store().SearchPapers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderPapers(cmd.OutOrStdout(), output, papers)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output style: "+outputStyles)

	return cmd
}
