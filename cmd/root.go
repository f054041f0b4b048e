package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Injected at build time using ldflags.
var (
	version = "dev"
	commit  = ""
)

// NewRootCommand creates the `photos` command and its nested children.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "photos [command]",
		Version:       versionInfo(),
		Short:         "Photo upload service backed by an object store and a file share",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(NewServeCommand(NewServeOptions()))

	return cmd
}

func versionInfo() string {
	if commit == "" {
		return version
	}
	return fmt.Sprintf("%s (commit: %s)", version, commit)
}
