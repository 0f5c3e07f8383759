package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/EdmundsEcho/data-join-oauth/pkg/registry"
	"github.com/EdmundsEcho/data-join-oauth/pkg/settings"
)

func newCheckConfigCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the settings, then print a redacted summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, env, err := loadConfig(flags)
			if err != nil {
				return err
			}
			s, err := settings.Load(cfg.SettingsDir, env)
			if err != nil {
				return err
			}
			reg, err := registry.Build(s)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			o := s.Options
			fmt.Fprintf(out, "settings ok (%s, %s)\n", cfg.SettingsDir, env)
			fmt.Fprintf(out, "  listen:    %s\n", o.Addr())
			fmt.Fprintf(out, "  redis:     %s\n", o.RedisURL)
			fmt.Fprintf(out, "  app:       %s\n", o.AppEndpoint)
			fmt.Fprintf(out, "  registrar: %s, %s\n", o.RegisterEndpoint, o.DriveTokenEndpoint)
			fmt.Fprintf(out, "  identity:  %s\n", join(reg.IdentityProviders()))
			fmt.Fprintf(out, "  drive:     %s\n", join(reg.DriveProviders()))
			return nil
		},
	}
}

func join[T fmt.Stringer](items []T) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.String()
	}
	return strings.Join(names, ", ")
}
