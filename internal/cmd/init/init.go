// Package init provides the init command for jdiv.
package init

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/jinja-div/internal/config"
	"github.com/open-cli-collective/jinja-div/pkg/md"
)

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		format    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize jdiv configuration",
		Long: `Initialize jdiv with your preferred build defaults.

This command will guide you through choosing a default output format, an
output directory and a code highlighting style. The configuration will be
saved to ~/.config/jdiv/config.yml.`,
		Example: `  # Interactive setup
  jdiv init

  # Pre-select the format
  jdiv init --format man`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return runInit(config.ResolvePath(configPath), format, outputDir)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "default output format")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for build output")

	return cmd
}

func runInit(configPath, prefillFormat, prefillOutputDir string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	cfg := newConfig(prefillFormat, prefillOutputDir)

	if err := buildForm(cfg).Run(); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	fmt.Println("\nYou're all set! Try running:")
	fmt.Println("  jdiv formats")
	fmt.Println("  jdiv build README.md")

	return nil
}

// newConfig seeds the form with flag values, defaulting the format to html.
func newConfig(format, outputDir string) *config.Config {
	cfg := &config.Config{
		DefaultFormat: string(md.FormatHTML),
		OutputDir:     outputDir,
	}
	if f, err := md.ParseFormat(format); err == nil {
		cfg.DefaultFormat = string(f)
	}
	return cfg
}

func buildForm(cfg *config.Config) *huh.Form {
	var options []huh.Option[string]
	for _, f := range md.Formats {
		options = append(options, huh.NewOption(string(f), string(f)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default format").
				Description("Used by 'jdiv build' when -f is not given").
				Options(options...).
				Value(&cfg.DefaultFormat),

			huh.NewInput().
				Title("Output directory (optional)").
				Description("Leave empty to write next to the input file").
				Placeholder("build").
				Value(&cfg.OutputDir),

			huh.NewInput().
				Title("Highlight style (optional)").
				Description("Chroma style for code blocks in HTML output").
				Placeholder("monokai").
				Value(&cfg.HighlightStyle),

			huh.NewConfirm().
				Title("Standalone documents?").
				Description("Wrap output in a complete document by default").
				Value(&cfg.Standalone),
		),
	)
}
