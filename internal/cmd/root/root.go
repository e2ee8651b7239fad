// Package root provides the root command for the jdiv CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/jinja-div/internal/cmd/build"
	"github.com/open-cli-collective/jinja-div/internal/cmd/completion"
	"github.com/open-cli-collective/jinja-div/internal/cmd/configcmd"
	"github.com/open-cli-collective/jinja-div/internal/cmd/dt2xml"
	"github.com/open-cli-collective/jinja-div/internal/cmd/formats"
	initcmd "github.com/open-cli-collective/jinja-div/internal/cmd/init"
	"github.com/open-cli-collective/jinja-div/internal/cmd/unrender"
	"github.com/open-cli-collective/jinja-div/internal/version"
)

// NewCmdRoot creates the root command for jdiv.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jdiv",
		Short: "Compile markdown with jinja_div template containers",
		Long: `jdiv compiles markdown documents that contain jinja_div blocks:

  :::jinja_div my-id
  :class: card

  user.name
  :::

Each block becomes a container whose first paragraph is emitted as a
template expression ({{ user.name }}) for HTML, text, man and Texinfo,
and dropped for LaTeX.

Get started by running: jdiv build README.md`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/jdiv/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "diagnostics output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(build.NewCmdBuild())
	cmd.AddCommand(formats.NewCmdFormats())
	cmd.AddCommand(dt2xml.NewCmdDT2XML())
	cmd.AddCommand(unrender.NewCmdUnrender())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
