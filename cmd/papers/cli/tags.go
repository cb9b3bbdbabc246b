package cli

import (
	"github.com/spf13/cobra"

	"papers/pkg/db/models"
	"papers/pkg/repo"
)

func NewTagsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage tags associated with papers",
	}

	cmd.AddCommand(newTagsAddCommand())
	cmd.AddCommand(newTagsRemoveCommand())

	return cmd
}

func newTagsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <ids> <tag>...",
		Short: "Add tags to papers",
		Long:  "Attach tags to the given papers. Attaching an already attached tag is a no-op.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}
			tags, err := models.ParseTags(args[1:])
			if err != nil {
				return err
			}
			return forEachPaper(cmd, ids, "add tags", func(r *repo.Repo, id uint) error {
				return r.Store().AttachTags(cmd.Context(), id, tags)
			})
		},
	}
}

func newTagsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <ids> <tag>...",
		Short: "Remove tags from papers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}
			tags, err := models.ParseTags(args[1:])
			if err != nil {
				return err
			}
			return forEachPaper(cmd, ids, "remove tags", func(r *repo.Repo, id uint) error {
				return r.Store().RemoveTags(cmd.Context(), id, tags)
			})
		},
	}
}
