package cli

import (
	"github.com/spf13/cobra"

	"papers/pkg/db/models"
	"papers/pkg/repo"
)

func NewAuthorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authors",
		Short: "Manage authors associated with papers",
	}

	cmd.AddCommand(newAuthorsAddCommand())
	cmd.AddCommand(newAuthorsRemoveCommand())

	return cmd
}

func newAuthorsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <ids> <author>...",
		Short: "Add authors to papers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}
			authors, err := models.ParseAuthors(args[1:])
			if err != nil {
				return err
			}
			return forEachPaper(cmd, ids, "add authors", func(r *repo.Repo, id uint) error {
				return r.Store().AttachAuthors(cmd.Context(), id, authors)
			})
		},
	}
}

func newAuthorsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <ids> <author>...",
		Short: "Remove authors from papers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}
			authors, err := models.ParseAuthors(args[1:])
			if err != nil {
				return err
			}
			return forEachPaper(cmd, ids, "remove authors", func(r *repo.Repo, id uint) error {
				return r.Store().RemoveAuthors(cmd.Context(), id, authors)
			})
		},
	}
}
