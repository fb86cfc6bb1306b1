package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/memodom/internal/config"
	"github.com/vango-dev/memodom/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┌─┐┌┬┐┌─┐┌┬┐┌─┐┌┬┐
  │││├┤ ││││ │ │││ ││││
  ┴ ┴└─┘┴ ┴└─┘─┴┘└─┘┴ ┴
`

// Persistent flags shared by every command.
var (
	configPath string
	noColor    bool
	outputFlag = string(errors.OutputText)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, describe(err), errorOutput())
		os.Exit(1)
	}
}

// errorOutput returns the --output format, falling back to text when the
// flag itself was invalid.
func errorOutput() errors.Output {
	out, err := errors.ParseOutput(outputFlag)
	if err != nil {
		return errors.OutputText
	}
	return out
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memodom",
		Short: "Cache-aware virtual tree diffing",
		Long: `memodom renders component trees into an arena, diffs them against the
mounted tree and applies the minimal change list to a surface.

Cached subtrees are skipped without diffing, and subtrees whose shape
was created before are cloned from a recorded template.

  • demo     run a scripted session against an in-memory surface
  • serve    host sessions over websocket with /metrics and /healthz
  • inspect  decode a recorded journal bundle`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor || os.Getenv("NO_COLOR") != "" {
				errors.SetColor(false)
			}
			_, err := errors.ParseOutput(outputFlag)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: memodom.json or memodom.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", string(errors.OutputText), "Error output format: text, compact or json")

	rootCmd.AddCommand(
		demoCmd(),
		serveCmd(),
		inspectCmd(),
		configCmd(),
		errorsCmd(),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads --config, or the nearest config file. A missing file
// falls back to the defaults unless --config named it.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if stderrors.Is(err, errors.New("M040")) {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", errors.Green("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("%s %s\n", errors.Yellow("⚠"), fmt.Sprintf(format, args...))
}
