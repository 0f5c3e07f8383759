// Command authsvc runs the OAuth2 gateway.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "authsvc",
		Short:         "OAuth2 gateway for identity login and drive authorization",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&flags.settingsDir, "settings-dir", "", "directory holding default.{toml,yaml} (overrides SETTINGS_DIR)")
	root.PersistentFlags().StringVar(&flags.env, "env", "", "development, testing or production (overrides APP_ENV)")

	root.AddCommand(
		newServeCmd(&flags, errOut),
		newCheckConfigCmd(&flags),
		newVersionCmd(),
	)
	return root.ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
