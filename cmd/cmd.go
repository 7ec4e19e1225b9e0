// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tedll/tedll/envconfig"
	"github.com/tedll/tedll/logutil"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "tedll",
		Short:         "Region embedding layers for text",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), envconfig.LogLevel()))
			slog.Debug("environment", "config", envconfig.Values())
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	// Commands erstellen
	inspectCmd := newInspectCmd()
	forwardCmd := newForwardCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["TEDLL_DEBUG"], envVars["TEDLL_BACKEND"], envVars["TEDLL_SEED"]}

	for _, cmd := range []*cobra.Command{inspectCmd, forwardCmd} {
		switch cmd {
		case forwardCmd:
			appendEnvDocs(cmd, append(envs, envVars["TEDLL_NUM_THREADS"], envVars["TEDLL_JSON"]))
		default:
			appendEnvDocs(cmd, envs)
		}
	}

	rootCmd.AddCommand(
		inspectCmd,
		forwardCmd,
	)

	return rootCmd
}
