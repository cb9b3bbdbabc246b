package cli

import (
	"github.com/spf13/cobra"

	"papers/pkg/db/models"
	"papers/pkg/ingest"
)

func NewUpdateCommand() *cobra.Command {
	var (
		url   string
		file  string
		title string
	)

	cmd := &cobra.Command{
		Use:   "update <ids>",
		Short: "Update metadata of existing papers",
		Long:  "Apply a partial update to the given papers. Only provided flags change; passing an empty string clears that field. A paper can never lose both its url and its file.",
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

			update := models.PaperUpdate{
				URL:   optional(cmd.Flags().Changed("url"), url),
				Title: optional(cmd.Flags().Changed("title"), title),
			}
			if cmd.Flags().Changed("file") {
				filename := ""
				if file != "" {
					if filename, err = ingest.RelativeToRoot(r.Root(), file); err != nil {
						return err
					}
				}
				update.Filename = &filename
			}

			for _, id := range ids {
				if err := r.Store().UpdatePaper(cmd.Context(), id, update); err != nil {
					return err
				}
				logger.Info("Updated paper %d", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "", "Url the paper was fetched from (empty clears)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "File inside the repository to associate (empty clears)")
	cmd.Flags().StringVar(&title, "title", "", "Title of the paper (empty clears)")

	return cmd
}
