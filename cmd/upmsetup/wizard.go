package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/johanforsgren/upmsetup/internal/ui"
)

func wizardCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Run the interactive setup wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd.Context(), env)
		},
	}
}

func runWizard(ctx context.Context, env *environment) error {
	credentials, err := env.credentials()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, ui.Services{
		Manifest:      env.manifest(),
		Credentials:   credentials,
		Authenticator: env.authenticator(),
		Verifier:      env.verifier(env.installation.AuthRegistryURL()),
		Installation:  env.installation,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
