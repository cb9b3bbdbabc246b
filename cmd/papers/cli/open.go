package cli

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
)

func NewOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open the file for the given paper",
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
			if len(ids) != 1 {
				return fmt.Errorf("open opens one paper at a time")
			}

			r, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer r.Close()

			paper, err := r.Store().GetPaper(cmd.Context(), ids[0], false)
			if err != nil {
				return err
			}
			if paper.Filename == nil {
				return fmt.Errorf("paper %d has no file associated", paper.ID)
			}

			path := filepath.Join(r.Root(), filepath.FromSlash(*paper.Filename))
			logger.Info("Opening %s", path)
			return openWithDefaultHandler(path)
		},
	}
}

// openWithDefaultHandler hands the path to the OS default opener.
func openWithDefaultHandler(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}
