// Package formats provides the formats command.
package formats

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/jinja-div/internal/view"
	"github.com/open-cli-collective/jinja-div/pkg/md"
)

type formatsOptions struct {
	output  string
	noColor bool
	writer  io.Writer
}

// NewCmdFormats creates the formats command.
func NewCmdFormats() *cobra.Command {
	opts := &formatsOptions{}

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List output formats",
		Long:  `List the output formats jinja_div blocks can be rendered to, with their family and file extension.`,
		Example: `  # List formats
  jdiv formats

  # As JSON
  jdiv formats -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.writer = cmd.OutOrStdout()
			return runFormats(opts)
		},
	}

	return cmd
}

func runFormats(opts *formatsOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.writer != nil {
		renderer.SetWriter(opts.writer)
	} else {
		renderer.SetWriter(os.Stdout)
	}

	headers := []string{"FORMAT", "FAMILY", "EXTENSION"}
	var rows [][]string
	for _, f := range md.Formats {
		v, _ := md.LookupVisitor(f)
		rows = append(rows, []string{string(f), string(v.Family), f.Extension()})
	}

	renderer.RenderTable(headers, rows)
	return nil
}
