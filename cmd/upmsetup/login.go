package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/registry/github"
)

func loginCmd(env *environment) *cobra.Command {
	var (
		username string
		password string
		registry string
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the registry and store the access token",
		Long: `Log in to the registry with the npm adduser handshake and store the access
token in the credential file.

Examples:
  upmsetup login --username bob --password secret1
  upmsetup login --username bob --password secret1 --no-save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registryURL := env.registryURL(registry)
			if github.IsGitHubRegistry(registryURL) {
				warn("GitHub Packages has no login endpoint, use 'credentials add --github --token <pat>'")
			}

			creds := domain.Credentials{Username: username, Password: password, RegistryURL: registryURL}
			callbacks := domain.AuthCallbacks{
				OnInfo: func(message string) { info("%s", message) },
			}

			token, err := env.authenticator().Authenticate(cmd.Context(), creds, callbacks)
			if err != nil {
				return err
			}

			if noSave {
				fmt.Println(token)
				return nil
			}
			return storeToken(env, registryURL, token)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Registry user name")
	cmd.Flags().StringVar(&password, "password", "", "Registry password")
	cmd.Flags().StringVar(&registry, "registry", "", "Registry URL (default from installation config)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Print the token instead of storing it")

	return cmd
}

func storeToken(env *environment, registryURL, token string) error {
	credentials, err := env.credentials()
	if err != nil {
		return err
	}

	if credentials.IsRegistryPresent(registryURL, token) {
		success("Credentials for %s already in %s", registryURL, credentials.Path())
		return nil
	}
	if err := credentials.AddRegistry(registryURL, token); err != nil {
		return err
	}
	success("Credentials for %s written to %s", registryURL, credentials.Path())
	return nil
}
