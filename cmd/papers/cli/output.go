package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"papers/pkg/db/models"
)

const outputStyles = "table, json or yaml"

// renderPapers writes papers in the requested output style.
func renderPapers(w io.Writer, style string, papers []models.Paper) error {
	switch style {
	case "table":
		return renderTable(w, papers)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(papers)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(papers); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown output style %q, expected %s", style, outputStyles)
	}
}

func renderTable(w io.Writer, papers []models.Paper) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tFILE\tTAGS\tLABELS\tAUTHORS")
	for _, paper := range papers {
		labels := make([]string, 0, len(paper.Labels))
		for _, label := range paper.Labels {
			labels = append(labels, label.String())
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			paper.ID,
			stringOrEmpty(paper.Title),
			stringOrEmpty(paper.Filename),
			strings.Join(paper.TagStrings(), " "),
			strings.Join(labels, " "),
			strings.Join(paper.AuthorStrings(), ", "),
		)
	}
	return tw.Flush()
}
