// Package dt2xml provides the dt2xml command, which renders a saved doctree
// as XML.
package dt2xml

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/jinja-div/pkg/doctree"
)

// NewCmdDT2XML creates the dt2xml command.
func NewCmdDT2XML() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dt2xml <file>",
		Short: "Convert a doctree to XML",
		Long: `Convert a doctree written by 'jdiv build --doctree' into indented XML.

The input extension defaults to .doctree. The output has the same stem with
an .xml extension.`,
		Example: `  # Writes README.xml
  jdiv dt2xml README

  # Explicit input
  jdiv dt2xml build/README.doctree`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDT2XML(args[0], cmd.OutOrStdout())
		},
	}

	return cmd
}

func runDT2XML(name string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	in, out := doctree.Paths(name)
	fmt.Fprintf(w, "Reading %s, writing %s\n", in, out)

	return doctree.ConvertFile(in, out)
}
