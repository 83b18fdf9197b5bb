package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func whoamiCmd(env *environment) *cobra.Command {
	var (
		token    string
		registry string
	)

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the account a registry token belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireValue("token", token); err != nil {
				return err
			}

			registryURL := env.registryURL(registry)
			account, err := env.verifier(registryURL).WhoAmI(cmd.Context(), registryURL, token)
			if err != nil {
				return err
			}
			fmt.Println(account)
			return nil
		},
	}

	cmd.Flags().StringVarP(&token, "token", "t", "", "Registry access token")
	cmd.Flags().StringVar(&registry, "registry", "", "Registry URL (default from installation config)")

	return cmd
}
