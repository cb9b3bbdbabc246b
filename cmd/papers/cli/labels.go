package cli

import (
	"github.com/spf13/cobra"

	"papers/pkg/db/models"
	"papers/pkg/repo"
)

func NewLabelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Manage labels associated with papers",
		Long:  "Manage key=value labels. A paper holds at most one value per key; setting an existing key overwrites its value.",
	}

	cmd.AddCommand(newLabelsAddCommand())
	cmd.AddCommand(newLabelsRemoveCommand())

	return cmd
}

func newLabelsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <ids> <key=value>...",
		Short: "Add labels to papers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}
			labels, err := models.ParseLabels(args[1:])
			if err != nil {
				return err
			}
			return forEachPaper(cmd, ids, "add labels", func(r *repo.Repo, id uint) error {
				for _, label := range labels {
					if err := r.Store().SetLabel(cmd.Context(), id, label); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newLabelsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <ids> <key>...",
		Short: "Remove labels from papers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := ParseIDs(args[0])
			if err != nil {
				return err
			}
			keys, err := models.ParseTags(args[1:]) // keys follow the same no-whitespace rule as tags
			if err != nil {
				return err
			}
			return forEachPaper(cmd, ids, "remove labels", func(r *repo.Repo, id uint) error {
				for _, key := range keys {
					if err := r.Store().RemoveLabel(cmd.Context(), id, key); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
