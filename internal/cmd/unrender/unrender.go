// Package unrender provides the unrender command, which turns jdiv HTML
// output back into markdown.
package unrender

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/jinja-div/internal/view"
	"github.com/open-cli-collective/jinja-div/pkg/md"
)

type unrenderOptions struct {
	out     string
	noColor bool
	stdin   io.Reader
	stdout  io.Writer
}

// NewCmdUnrender creates the unrender command.
func NewCmdUnrender() *cobra.Command {
	opts := &unrenderOptions{}

	cmd := &cobra.Command{
		Use:   "unrender [file.html]",
		Short: "Convert HTML back to markdown",
		Long: `Convert HTML produced by 'jdiv build' back to markdown.

Every jinja_div container is restored as a :::jinja_div block with its id,
class and template expression. Reads stdin when no file is given.`,
		Example: `  # Print markdown
  jdiv unrender README.html

  # Write to a file
  jdiv unrender README.html -O README.md

  # From stdin
  cat page.html | jdiv unrender`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runUnrender(path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "O", "", "output file (default: stdout)")

	return cmd
}

func runUnrender(path string, opts *unrenderOptions) error {
	var data []byte
	var err error
	if path == "" || path == "-" {
		in := opts.stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	markdown, err := md.FromHTML(string(data))
	if err != nil {
		return fmt.Errorf("failed to convert HTML: %w", err)
	}

	w := opts.stdout
	if w == nil {
		w = os.Stdout
	}

	if opts.out != "" && opts.out != "-" {
		if err := os.WriteFile(opts.out, []byte(markdown+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.out, err)
		}
		r := view.NewRenderer(view.FormatTable, opts.noColor)
		r.SetWriter(w)
		r.Success("Wrote " + opts.out)
		return nil
	}

	_, err = fmt.Fprintln(w, markdown)
	return err
}
