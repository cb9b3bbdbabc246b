package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"papers/pkg/db/models"
	"papers/pkg/db/store"
	"papers/pkg/log"
)

func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a list of papers in json format",
		Long:  "Import papers from a json file as produced by `list -o json`, or from stdin when the file is '-'. Papers are inserted as new rows with fresh ids; tags, labels and authors come along.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			var reader io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				reader = file
			}

			papers, err := readPaperList(reader)
			if err != nil {
				return err
			}

			r, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer r.Close()

			return importPapers(cmd.Context(), r.Store(), logger, papers)
		},
	}
}

func readPaperList(r io.Reader) ([]models.Paper, error) {
	var papers []models.Paper
	if err := json.NewDecoder(r).Decode(&papers); err != nil {
		return nil, fmt.Errorf("failed to decode paper list: %w", err)
	}
	return papers, nil
}

// importPapers inserts each paper as a new row, ignoring incoming ids and
// timestamps. The deleted flag survives the import so an exported
// repository restores with its audit state intact.
func importPapers(ctx context.Context, st store.PaperStore, logger log.LoggerService, papers []models.Paper) error {
	for _, paper := range papers {
		labels := make([]models.Label, 0, len(paper.Labels))
		for _, label := range paper.Labels {
			labels = append(labels, models.Label{Key: label.Key, Value: label.Value})
		}

		fresh := models.Paper{
			URL:      paper.URL,
			Filename: paper.Filename,
			Title:    paper.Title,
			Deleted:  paper.Deleted,
		}
		if err := st.CreatePaper(ctx, &fresh, paper.TagStrings(), labels, paper.AuthorStrings()); err != nil {
			return fmt.Errorf("failed to import paper: %w", err)
		}
		logger.Info("Imported paper %d", fresh.ID)
	}
	return nil
}
