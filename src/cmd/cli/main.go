// measure-cli converts a pixel distance to the full CSS unit table without
// any GUI. It is the headless companion of the resident app.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"pixel-measure/src/units"
)

type cliOptions struct {
	distancePx float64
	dpi        float64
	fontSizePx float64
	viewport   string
	jsonOutput bool
	verbose    bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(os.Args)
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"measure-cli"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "measure-cli",
		Short:         "Convert a pixel distance to CSS length units",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64Var(&opts.distancePx, "px", 0, "Distance in pixels to convert")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", units.DefaultDPI, "Screen DPI for physical units")
	cmd.Flags().Float64Var(&opts.fontSizePx, "font-size", units.DefaultBaseFontSizePx, "Base font size in pixels for em/rem")
	cmd.Flags().StringVar(&opts.viewport, "viewport", "1920x1080", "Viewport size WxH for relative units")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	_ = cmd.MarkFlagRequired("px")

	return cmd
}

func runWithOptions(opts cliOptions, out io.Writer) error {
	if !opts.verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}

	vw, vh, err := parseViewport(opts.viewport)
	if err != nil {
		return err
	}

	settings := units.Settings{DPI: opts.dpi, BaseFontSizePx: opts.fontSizePx}
	values, err := units.Convert(opts.distancePx, settings, vw, vh)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return outputJSON(out, opts, vw, vh, values)
	}
	outputTable(out, opts.distancePx, values)
	return nil
}

// parseViewport accepts "WxH" with positive integer dimensions.
func parseViewport(s string) (w, h float64, err error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid viewport %q, expected WxH (e.g. 1920x1080)", s)
	}
	wi, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || wi <= 0 || hi <= 0 {
		return 0, 0, fmt.Errorf("invalid viewport %q, expected WxH (e.g. 1920x1080)", s)
	}
	return float64(wi), float64(hi), nil
}

func outputTable(out io.Writer, distancePx float64, values map[units.Unit]float64) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("Distance: %.2f px", distancePx))
	t.AppendHeader(table.Row{"Unit", "Value", "Description"})

	for _, info := range units.All() {
		t.AppendRow(table.Row{
			string(info.Symbol),
			units.Format(info.Symbol, values[info.Symbol]),
			info.Description,
		})
	}
	t.Render()
}

type conversionResult struct {
	DistancePx     float64            `json:"distance_px"`
	DPI            float64            `json:"dpi"`
	BaseFontSizePx float64            `json:"base_font_size_px"`
	ViewportW      float64            `json:"viewport_width"`
	ViewportH      float64            `json:"viewport_height"`
	Values         map[string]float64 `json:"values"`
}

func outputJSON(out io.Writer, opts cliOptions, vw, vh float64, values map[units.Unit]float64) error {
	result := conversionResult{
		DistancePx:     opts.distancePx,
		DPI:            opts.dpi,
		BaseFontSizePx: opts.fontSizePx,
		ViewportW:      vw,
		ViewportH:      vh,
		Values:         make(map[string]float64, len(values)),
	}
	for unit, v := range values {
		result.Values[string(unit)] = v
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
