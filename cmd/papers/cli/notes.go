package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewNotesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "notes <id>",
		Short: "Edit the notes associated with a paper",
		Long:  "Open $EDITOR on the notes for a paper. The paper's metadata is shown as a read-only header; everything below it is saved back when the editor exits cleanly.",
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
				return fmt.Errorf("notes edits one paper at a time")
			}
			id := ids[0]

			r, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer r.Close()

			paper, err := r.Store().GetPaper(cmd.Context(), id, true)
			if err != nil {
				return err
			}
			note, err := r.Store().GetNote(cmd.Context(), id)
			if err != nil {
				return err
			}

			header, err := yaml.Marshal(paper)
			if err != nil {
				return err
			}
			seed := fmt.Sprintf("---\n%s# Do not edit this metadata, write notes below.\n---\n%s", header, note.Content)

			edited, err := editTempFile(fmt.Sprintf("papers-%d-*.md", id), seed)
			if err != nil {
				return err
			}

			return r.Store().SetNote(cmd.Context(), id, stripHeader(edited))
		},
	}
}

// editTempFile writes seed to a temp file, runs the user's editor on it
// and returns the edited content. An editor exiting non-zero discards the
// edit.
func editTempFile(pattern, seed string) (string, error) {
	file, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}
	path := file.Name()
	defer os.Remove(path)

	if _, err := file.WriteString(seed); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	editCmd := exec.Command(editor, path)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return "", fmt.Errorf("editor failed, not saving: %w", err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(edited), nil
}

// stripHeader drops the metadata header block, keeping only the notes.
func stripHeader(content string) string {
	parts := strings.SplitN(content, "---\n", 3)
	if len(parts) == 3 && parts[0] == "" {
		return parts[2]
	}
	return content
}
