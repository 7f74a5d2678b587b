package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/tesseract-olap/tesseract-setup/internal/exitcodes"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := getPrinter()
		release := releaseVersion(Version)
		if p.Structured() {
			return p.Emit(map[string]any{
				"version":    Version,
				"commit":     Commit,
				"build_date": BuildDate,
				"release":    release != "",
			})
		}
		if release == "" {
			p.Textf("tesseract-setup %s (development build, %s)\n", Version, Commit)
			return nil
		}
		p.Textf("tesseract-setup %s (%s) built %s\n", release, Commit, BuildDate)
		return nil
	},
}

// releaseVersion returns the canonical vX.Y.Z form of v, or "" for dev and
// other non-semver builds.
func releaseVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			return exitcodes.InvalidArgsErrorf("unknown shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}
