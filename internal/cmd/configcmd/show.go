package configcmd

import (
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/jinja-div/internal/config"
	"github.com/open-cli-collective/jinja-div/internal/view"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current jdiv configuration with the source of each value.`,
		Example: `  # Show current config
  jdiv config show

  # As JSON
  jdiv config show -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			output, _ := cmd.Flags().GetString("output")
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(config.ResolvePath(configPath), output, noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func runShow(configPath, output string, noColor bool, w io.Writer) error {
	if err := view.ValidateFormat(output); err != nil {
		return err
	}
	if noColor {
		color.NoColor = true
	}
	if w == nil {
		w = os.Stdout
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}

	source := func(value, fileValue, envVar string) string {
		if value == "" {
			return "default"
		}
		if v := os.Getenv(envVar); v != "" && v == value {
			return envVar
		}
		if fileErr == nil && fileValue == value {
			return "config"
		}
		return "default"
	}

	fields := []field{
		{"default_format", string(cfg.Format()), source(cfg.DefaultFormat, fileCfg.DefaultFormat, "JDIV_FORMAT")},
		{"output_dir", cfg.OutputDir, source(cfg.OutputDir, fileCfg.OutputDir, "JDIV_OUTPUT_DIR")},
		{"standalone", strconv.FormatBool(cfg.Standalone), "config"},
		{"highlight_style", cfg.HighlightStyle, source(cfg.HighlightStyle, fileCfg.HighlightStyle, "JDIV_HIGHLIGHT_STYLE")},
	}
	if !cfg.Standalone {
		fields[2].Source = "default"
	}

	renderer := view.NewRenderer(view.Format(output), noColor)
	renderer.SetWriter(w)

	if output == string(view.FormatJSON) {
		return renderer.RenderJSON(map[string]interface{}{
			"path":   configPath,
			"exists": fileErr == nil,
			"fields": fields,
		})
	}

	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		value := f.Value
		if value == "" {
			value = "-"
		}
		rows = append(rows, []string{f.Name, value, f.Source})
	}
	renderer.RenderTable([]string{"KEY", "VALUE", "SOURCE"}, rows)

	dim := color.New(color.Faint)
	_, _ = dim.Fprintf(w, "\nConfig file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
