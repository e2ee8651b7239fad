// Package build provides the build command, which compiles a markdown file
// into one output format.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/open-cli-collective/jinja-div/internal/config"
	"github.com/open-cli-collective/jinja-div/internal/logging"
	"github.com/open-cli-collective/jinja-div/internal/version"
	"github.com/open-cli-collective/jinja-div/internal/view"
	"github.com/open-cli-collective/jinja-div/internal/watch"
	"github.com/open-cli-collective/jinja-div/pkg/doctree"
	"github.com/open-cli-collective/jinja-div/pkg/md"
)

type buildOptions struct {
	format     string
	out        string
	standalone bool
	doctree    bool
	watch      bool

	configPath string
	output     string
	noColor    bool

	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
}

// NewCmdBuild creates the build command.
func NewCmdBuild() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build <file.md>",
		Short: "Compile a markdown file",
		Long: `Compile a markdown file containing jinja_div blocks into one output format.

The output is written next to the input (or into output_dir from the config)
as <stem>.<ext>, where ext depends on the format. Use -O - to write to stdout.`,
		Example: `  # Build HTML
  jdiv build README.md

  # Build a man page to stdout
  jdiv build README.md -f man -O -

  # Keep the parsed tree for dt2xml and rebuild on change
  jdiv build README.md --doctree --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			verbose, _ := cmd.Flags().GetBool("verbose")
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			opts.logger = logging.Must(verbose)
			defer func() { _ = opts.logger.Sync() }()

			return runBuild(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join(md.FormatNames(), ", "))
	cmd.Flags().StringVarP(&opts.out, "out", "O", "", "output file (- for stdout)")
	cmd.Flags().BoolVar(&opts.standalone, "standalone", false, "wrap output in a complete document")
	cmd.Flags().BoolVar(&opts.doctree, "doctree", false, "also write the parsed tree as <stem>.doctree")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "rebuild when the input changes")

	return cmd
}

func runBuild(ctx context.Context, path string, opts *buildOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.stdout == nil {
		opts.stdout = os.Stdout
	}
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}
	if opts.logger == nil {
		opts.logger = zap.NewNop()
	}

	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	cfg, err := config.LoadWithEnv(config.ResolvePath(opts.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w (run 'jdiv init' to configure)", err)
	}

	format := cfg.Format()
	if opts.format != "" {
		format, err = md.ParseFormat(opts.format)
		if err != nil {
			return err
		}
	}

	conv, err := md.NewConverter(
		md.WithFormat(format),
		md.WithStandalone(opts.standalone || cfg.Standalone),
		md.WithHighlighting(cfg.HighlightStyle),
		md.WithVersion(version.Version),
	)
	if err != nil {
		return err
	}

	b := &builder{
		path:   path,
		out:    outputPath(path, opts.out, cfg.OutputDir, format),
		conv:   conv,
		opts:   opts,
		render: view.NewRenderer(view.Format(opts.output), opts.noColor),
	}
	b.render.SetWriter(opts.stderr)

	if err := b.build(); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := watch.New(path, watch.DefaultDebounce, opts.logger, b.build)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

type builder struct {
	path   string
	out    string
	conv   *md.Converter
	opts   *buildOptions
	render *view.Renderer
}

// build runs one parse and render of the input file.
func (b *builder) build() error {
	log := b.opts.logger.With(zap.String("file", b.path), zap.String("format", string(b.conv.Format())))

	source, err := os.ReadFile(b.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", b.path, err)
	}

	doc, err := b.conv.Parse(source)
	if err != nil {
		return err
	}
	log.Debug("parsed", zap.Int("diagnostics", len(doc.Diagnostics)), zap.Int("ids", len(doc.Names)))

	// The tree must be captured before Render detaches payloads.
	if b.opts.doctree {
		treePath := stem(b.path) + doctree.Ext
		if err := doctree.Save(treePath, doctree.FromAST(doc.Root, doc.Source)); err != nil {
			return err
		}
		log.Info("wrote doctree", zap.String("path", treePath))
	}

	out, err := b.conv.Render(doc)
	if err != nil {
		return err
	}

	if len(doc.Diagnostics) > 0 || b.opts.output == string(view.FormatJSON) {
		if err := b.render.RenderDiagnostics(b.path, doc.Diagnostics); err != nil {
			return err
		}
	}
	for _, d := range doc.Diagnostics {
		log.Warn("diagnostic", zap.String("level", string(d.Level)), zap.Int("line", d.Line), zap.String("message", d.Message))
	}

	if b.out == "-" {
		_, err := io.WriteString(b.opts.stdout, out)
		return err
	}
	if dir := filepath.Dir(b.out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(b.out, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.out, err)
	}
	log.Info("wrote output", zap.String("path", b.out))
	if b.opts.output != string(view.FormatJSON) {
		b.render.Success("Wrote " + b.out)
	}
	return nil
}

// outputPath resolves where a build writes: the explicit flag, else
// <stem>.<ext> in outputDir or next to the input.
func outputPath(in, flagValue, outputDir string, f md.Format) string {
	if flagValue != "" {
		return flagValue
	}
	name := stem(in) + "." + f.Extension()
	if outputDir != "" {
		return filepath.Join(outputDir, filepath.Base(name))
	}
	return name
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
