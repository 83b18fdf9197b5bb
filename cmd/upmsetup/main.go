package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &environment{}
	rootCmd := newRootCmd(env)

	err := rootCmd.ExecuteContext(ctx)
	env.close()
	if err != nil {
		errorMsg("%s", err)
		os.Exit(1)
	}
}

func newRootCmd(env *environment) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "upmsetup",
		Short: "Set up Unity projects for private package registries",
		Long: `upmsetup prepares a Unity project for packages from private npm registries.

It adds scoped registries to Packages/manifest.json, logs in to the registry
and stores the access token in ~/.upmconfig.toml. Without a command it starts
an interactive wizard.

Every flag can also be set through the environment:
  UPMSETUP_PROJECT, UPMSETUP_MANIFEST, UPMSETUP_UPMCONFIG,
  UPMSETUP_AUTH_SECTION, UPMSETUP_CONFIG, UPMSETUP_LOG_FILE,
  UPMSETUP_HTTP_TIMEOUT`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd.Context(), env)
		},
	}

	env.bindFlags(rootCmd)

	rootCmd.AddCommand(
		wizardCmd(env),
		registriesCmd(env),
		loginCmd(env),
		credentialsCmd(env),
		whoamiCmd(env),
		versionCmd(),
	)

	return rootCmd
}

func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
