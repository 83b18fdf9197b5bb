package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func registriesCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registries",
		Short: "Check or add the scoped registries of the manifest",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "check",
			Short: "Report which registries the manifest already holds",
			RunE: func(cmd *cobra.Command, args []string) error {
				editor := env.manifest()
				registries := env.installation.AllRegistries()
				presence := editor.CheckPresence(registries)

				missing := 0
				for _, r := range registries {
					if presence[r.Name] {
						success("%s (%s)", r.Name, r.URL)
					} else {
						warn("%s (%s) missing scopes %s", r.Name, r.URL, strings.Join(r.Scopes, ", "))
						missing++
					}
				}
				if missing > 0 {
					return fmt.Errorf("%d of %d registries missing from %s", missing, len(registries), editor.Path())
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add",
			Short: "Add the registries to the manifest",
			RunE: func(cmd *cobra.Command, args []string) error {
				editor := env.manifest()
				registries := env.installation.AllRegistries()
				if err := editor.AddRegistries(registries); err != nil {
					return err
				}
				success("%d registries present in %s", len(registries), editor.Path())
				return nil
			},
		},
	)

	return cmd
}
