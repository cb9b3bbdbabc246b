package main

import (
	"fmt"
	"os"

	"papers/cmd/papers/cli"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewVersionCommand())

	root.AddCommand(cli.NewInitCommand())
	root.AddCommand(cli.NewAddCommand())
	root.AddCommand(cli.NewFetchCommand())
	root.AddCommand(cli.NewImportCommand())
	root.AddCommand(cli.NewListCommand())
	root.AddCommand(cli.NewSearchCommand())
	root.AddCommand(cli.NewShowCommand())
	root.AddCommand(cli.NewUpdateCommand())
	root.AddCommand(cli.NewRemoveCommand())
	root.AddCommand(cli.NewTagsCommand())
	root.AddCommand(cli.NewLabelsCommand())
	root.AddCommand(cli.NewAuthorsCommand())
	root.AddCommand(cli.NewNotesCommand())
	root.AddCommand(cli.NewOpenCommand())
	root.AddCommand(cli.NewConfigCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
