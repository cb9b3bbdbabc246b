package cli

import (
	"github.com/spf13/cobra"

	"papers/pkg/db/models"
	"papers/pkg/db/store"
)

func NewListCommand() *cobra.Command {
	var (
		file    string
		title   string
		tags    []string
		labels  []string
		authors []string
		deleted bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "list [ids]",
		Short: "List the papers stored in this repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			filter := store.ListFilter{
				File:           file,
				Title:          title,
				IncludeDeleted: deleted,
			}
			if len(args) == 1 {
				if filter.IDs, err = ParseIDs(args[0]); err != nil {
					return err
				}
			}
			if filter.Tags, err = models.ParseTags(tags); err != nil {
				return err
			}
			if filter.Labels, err = models.ParseLabels(labels); err != nil {
				return err
			}
			if filter.Authors, err = models.ParseAuthors(authors); err != nil {
				return err
			}

			r, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer r.Close()

			papers, err := r.Store().ListPapers(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return renderPapers(cmd.OutOrStdout(), output, papers)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Filter to papers whose filename contains this (case-insensitive)")
	cmd.Flags().StringVar(&title, "title", "", "Filter to papers whose title contains this (case-insensitive)")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Filter to papers that have all of the given tags")
	cmd.Flags().StringArrayVarP(&labels, "label", "l", nil, "Filter to papers that have all of the given labels (key=value)")
	cmd.Flags().StringArrayVarP(&authors, "author", "a", nil, "Filter to papers that have all of the given authors")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "Include soft-deleted papers")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output style: "+outputStyles)

	return cmd
}
