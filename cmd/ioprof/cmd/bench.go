package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/ioprof/internal/benchmark"
	"github.com/spf13/cobra"
)

// benchCmd represents the bench command.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure the overhead of the profiler itself",
	Long: `Run micro benchmarks of the profiler operations and print the cost of each.

The benchmarks use their own profiler instances, so the global switch and any
configuration have no effect on them.

Examples:
  ioprof bench
  ioprof bench --iterations 1000000 --labels 256`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		iterations, _ := cmd.Flags().GetInt("iterations")
		labels, _ := cmd.Flags().GetInt("labels")
		categories, _ := cmd.Flags().GetInt("categories")

		if iterations <= 0 {
			return fmt.Errorf("invalid iterations: %d (must be positive)", iterations)
		}

		suite := benchmark.NewOverheadSuite(benchmark.OverheadConfig{
			Labels:     labels,
			Categories: categories,
		})
		results := suite.RunAll(iterations)

		out := cmd.OutOrStdout()
		suite.WriteResults(out)

		byName := make(map[string]benchmark.BenchmarkResult, len(results))
		for _, r := range results {
			if r.Error != nil {
				return fmt.Errorf("benchmark %s failed: %w", r.Name, r.Error)
			}
			byName[r.Name] = r
		}
		ratio := benchmark.Overhead(byName[benchmark.BenchLogEnabled], byName[benchmark.BenchLogDisabled])
		_, err := fmt.Fprintf(out, "Enabled Log costs %.1fx a disabled one\n", ratio)
		return err
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
	defaults := benchmark.DefaultOverheadConfig()
	benchCmd.Flags().IntP("iterations", "n", 100000, "iterations per benchmark")
	benchCmd.Flags().Int("labels", defaults.Labels, "distinct labels per category")
	benchCmd.Flags().Int("categories", defaults.Categories, "categories filled before ReportData")
}
