package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tesseract-olap/tesseract-setup/internal/config"
	"github.com/tesseract-olap/tesseract-setup/internal/exitcodes"
	"github.com/tesseract-olap/tesseract-setup/internal/installer"
	ui "github.com/tesseract-olap/tesseract-setup/internal/ui"
)

// Version information - set via -ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// rootCmd runs the interactive configure flow when invoked bare. Flags
// only override defaults; none are needed for a stock install.
var rootCmd = &cobra.Command{
	Use:           "tesseract-setup",
	Short:         "Configure the tesseract-olap service",
	Long:          "Create the tesseract service account and point the installed tesseract-olap unit at your ClickHouse server and schema.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.InitGlobal(ui.Config{
			NoColor: flagNoColor,
			NoEmoji: flagNoEmoji,
		})

		// Set NO_COLOR env so lipgloss respects the flag
		if flagNoColor {
			os.Setenv("NO_COLOR", "1")
		}

		switch flagOutput {
		case "text", "", "json", "yaml":
			return nil
		default:
			return exitcodes.InvalidArgsErrorf("invalid --output: %s (use json|yaml|text)", flagOutput)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		return runConfigure(cmd.Context(), d, getPrinter())
	},
}

var (
	flagUnitFile string
	flagUser     string
	flagConfig   string
	flagOutput   string
	flagNoColor  bool
	flagNoEmoji  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagUnitFile, "unit-file", "", "Path to the installed unit file (overrides env)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Service account name (overrides env)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML file with setup defaults (overrides "+config.EnvConfigFile+")")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Summary format: json|yaml|text")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable ANSI colors")
	rootCmd.PersistentFlags().BoolVar(&flagNoEmoji, "no-emoji", false, "Disable emoji output")

	// Only the root gets the grouped help; subcommands use cobra's default.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			defaultHelp(cmd, args)
			return
		}
		printRootHelp(os.Stdout)
	})
}

func printRootHelp(w io.Writer) {
	// Help runs before PersistentPreRun, so apply the color flags here
	c := ui.NewColorConfig()
	c.Enabled = c.Enabled && !flagNoColor
	c.EmojiEnabled = c.EmojiEnabled && !flagNoEmoji

	const cmdWidth = 24

	fmt.Fprintln(w, c.Header(" tesseract-setup "))
	fmt.Fprintln(w, c.Description("Configure an installed tesseract-olap service."))
	fmt.Fprintln(w, c.Separator(50))
	fmt.Fprintln(w)

	fmt.Fprintln(w, c.SubHeader("USAGE"))
	fmt.Fprintf(w, "  %s [flags]\n", "tesseract-setup")
	fmt.Fprintf(w, "  %s <command> [flags]\n", "tesseract-setup")
	fmt.Fprintln(w)

	fmt.Fprintln(w, c.SubHeader("Commands"))
	fmt.Fprintln(w, c.FormatCommandAligned("(none)", "Interactive configure flow", cmdWidth))
	fmt.Fprintln(w, c.FormatCommandAligned("doctor", "Check the host before or after configuring", cmdWidth))
	fmt.Fprintln(w, c.FormatCommandAligned("version", "Show version", cmdWidth))
	fmt.Fprintln(w, c.FormatCommandAligned("completion <shell>", "Generate shell completion", cmdWidth))
	fmt.Fprintln(w)

	fmt.Fprintln(w, c.SubHeader("Flags"))
	fmt.Fprint(w, rootCmd.PersistentFlags().FlagUsages())
}

// runConfigure drives the configure pipeline and, for json/yaml output,
// emits the run summary on stdout. Status lines go to stderr in that case
// so the summary stays parseable.
func runConfigure(ctx context.Context, d *installer.Deps, out ui.Printer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out.Structured() {
		d.Printer.W = os.Stderr
	}

	st := &installer.State{}
	if err := installer.Run(ctx, installer.Pipeline(d), st); err != nil {
		return err
	}

	if out.Structured() {
		return out.Emit(st.Summary(d))
	}
	return nil
}

// silentErr carries an exit code without printing anything; the command
// already reported the problem.
type silentErr struct{ error }

func (e silentErr) Unwrap() error { return e.error }

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		code := exitcodes.CodeForError(err)
		var se silentErr
		if !errors.As(err, &se) {
			fmt.Fprintln(os.Stderr, err)
			if actions := hintsFor(code); len(actions) > 0 {
				ui.PrintError(os.Stderr, ui.ErrorMessage{Actions: actions})
			}
		}
		exitcodes.Exit(code)
	}
}

// hintsFor suggests next steps for failures an operator can fix. The error
// text itself is printed unchanged before these.
func hintsFor(code int) []string {
	switch code {
	case exitcodes.AccountError:
		return []string{"Re-run with sudo: sudo tesseract-setup", "Check the host with: tesseract-setup doctor"}
	case exitcodes.FileError:
		return []string{"Install tesseract-olap first, or pass --unit-file", "Check the host with: tesseract-setup doctor"}
	default:
		return nil
	}
}

// loadCfg reads defaults, the optional YAML file and env via
// internal/config, then applies overrides from persistent flags.
func loadCfg() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, exitcodes.WrapError(exitcodes.PreconditionFailed, "load config", err)
	}
	if flagUnitFile != "" {
		cfg.UnitPath = flagUnitFile
	}
	if flagUser != "" {
		cfg.ServiceUser = flagUser
	}
	return cfg, nil
}
