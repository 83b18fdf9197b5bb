package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/registry/npm"
)

func credentialsCmd(env *environment) *cobra.Command {
	var (
		token    string
		registry string
		verify   bool
	)

	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Check or add a registry token in the credential file",
	}
	cmd.PersistentFlags().StringVarP(&token, "token", "t", "", "Registry access token")
	cmd.PersistentFlags().StringVar(&registry, "registry", "", "Registry URL (default from installation config)")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Store a token for the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireValue("token", token); err != nil {
				return err
			}
			if !npm.ValidToken(token) {
				return fmt.Errorf("%w: token is too short", domain.ErrValidation)
			}

			registryURL := env.registryURL(registry)
			if verify {
				account, err := env.verifier(registryURL).WhoAmI(cmd.Context(), registryURL, token)
				if err != nil {
					return err
				}
				info("Token belongs to %s", account)
			}
			return storeToken(env, registryURL, token)
		},
	}
	addCmd.Flags().BoolVar(&verify, "verify", false, "Check the token with the registry before storing it")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether the credential file holds the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireValue("token", token); err != nil {
				return err
			}

			credentials, err := env.credentials()
			if err != nil {
				return err
			}

			registryURL := env.registryURL(registry)
			if !credentials.IsRegistryPresent(registryURL, token) {
				return fmt.Errorf("no credentials for %s with this token in %s", registryURL, credentials.Path())
			}
			success("Credentials for %s present in %s", registryURL, credentials.Path())
			return nil
		},
	}

	cmd.AddCommand(addCmd, checkCmd)
	return cmd
}
