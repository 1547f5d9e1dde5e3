package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/MeKo-Tech/ioprof/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// demoStep is one operation of the sample run. Steps without a category are
// unmetered work.
type demoStep struct {
	category string
	label    string
	duration time.Duration
}

var demoSteps = []demoStep{
	{duration: 500 * time.Millisecond},
	{"test", "123456789", 750 * time.Millisecond},
	{"test", "123456789", 200 * time.Millisecond},
	{"test", "different", 125 * time.Millisecond},
	{"test2", "123456789", 80 * time.Millisecond},
	{profiler.SQLCategory, "update users set name = 'a' where id = 1", 30 * time.Millisecond},
	{profiler.SQLCategory, "UPDATE  users\n   SET name = 'b'\n WHERE id = 2", 15 * time.Millisecond},
	{duration: 20 * time.Millisecond},
}

// runDemo replays demoSteps on p, scaling every pause by scale.
func runDemo(p *profiler.Profiler, scale float64, sleep func(time.Duration)) {
	for _, step := range demoSteps {
		start := p.Now()
		sleep(time.Duration(float64(step.duration) * scale))
		if step.category != "" {
			p.Log(step.category, step.label, start)
		}
	}
}

// demoCmd represents the demo command.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Replay a sample run and print its report",
	Long: `Replay a short sample run with real pauses and print the resulting report.

The run spends time in the categories "test", "test2" and "sql" as well as
in unmetered work, so the report shows every kind of row.

Examples:
  ioprof demo
  ioprof demo --scale 0.01 --format json
  ioprof demo --format html --output report.html`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		scale := cfg.Demo.Scale
		format := cfg.Output.Format
		outputFile := cfg.Output.File

		p := profiler.New()
		if !p.Enabled() {
			slog.Warn("Profiling is disabled, the report will be empty")
		}

		slog.Info("Running demo", "steps", len(demoSteps), "scale", scale)
		runDemo(p, scale, time.Sleep)

		out, err := report.Render(p.ReportData(), format)
		if err != nil {
			return err
		}
		return writeOutput(cmd, out, outputFile)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringP("format", "f", "text", "output format (text, json, yaml, csv, html)")
	demoCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	demoCmd.Flags().Float64("scale", 1.0, "multiplier applied to every pause of the sample run")

	flagBindings := []struct {
		key  string
		flag string
	}{
		{"output.format", "format"},
		{"output.file", "output"},
		{"demo.scale", "scale"},
	}
	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, demoCmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}
