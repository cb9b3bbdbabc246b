package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"papers/pkg/db/models"
	"papers/pkg/ingest"
)

func NewAddCommand() *cobra.Command {
	var (
		title   string
		tags    []string
		labels  []string
		authors []string
	)

	cmd := &cobra.Command{
		Use:   "add [url|path]...",
		Short: "Add paper documents from urls or local files",
		Long:  "Fetch documents from urls into the repository, or register files already inside it. Each item is processed independently; one failure does not abort the others.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := ingest.ParseSources(args)
			if err != nil {
				return err
			}
			return runIngest(cmd, sources, title, tags, labels, authors)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title for the added papers")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Tags to attach to the added papers")
	cmd.Flags().StringArrayVarP(&labels, "label", "l", nil, "Labels (key=value) to attach to the added papers")
	cmd.Flags().StringArrayVarP(&authors, "author", "a", nil, "Authors to associate with the added papers")

	return cmd
}

// NewFetchCommand is add restricted to urls.
func NewFetchCommand() *cobra.Command {
	var (
		title   string
		tags    []string
		labels  []string
		authors []string
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>...",
		Short: "Fetch paper documents from urls",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := ingest.ParseSources(args)
			if err != nil {
				return err
			}
			for _, src := range sources {
				if src.Kind != ingest.SourceURL {
					return fmt.Errorf("%s is not a url, use add for local files", src)
				}
			}
			return runIngest(cmd, sources, title, tags, labels, authors)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title for the fetched papers")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Tags to attach to the fetched papers")
	cmd.Flags().StringArrayVarP(&labels, "label", "l", nil, "Labels (key=value) to attach to the fetched papers")
	cmd.Flags().StringArrayVarP(&authors, "author", "a", nil, "Authors to associate with the fetched papers")

	return cmd
}

func runIngest(cmd *cobra.Command, sources []ingest.Source, title string, tags, labels, authors []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	mergedTags, err := mergeTags(cfg, tags)
	if err != nil {
		return err
	}
	mergedLabels, err := mergeLabels(cfg, labels)
	if err != nil {
		return err
	}
	parsedAuthors, err := models.ParseAuthors(authors)
	if err != nil {
		return err
	}

	r, err := openRepo(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	pipeline := ingest.New(r.Store(), r.Root(), logger.Named("ingest"))
	results := pipeline.Run(cmd.Context(), sources, ingest.Options{
		Title:   title,
		Tags:    mergedTags,
		Labels:  mergedLabels,
		Authors: parsedAuthors,
	})

	if failed := ingest.Failures(results); failed > 0 {
		return fmt.Errorf("%d of %d items failed", failed, len(results))
	}
	return nil
}
