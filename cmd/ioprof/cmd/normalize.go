package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
	"github.com/spf13/cobra"
)

// normalizeCmd represents the normalize command.
var normalizeCmd = &cobra.Command{
	Use:   "normalize [statement...]",
	Short: "Print the report key of SQL statements",
	Long: `Print the key under which the profiler records each SQL statement.

Statements are taken from the arguments or, when there are none, one per line
from standard input. Data-modifying statements are reduced to their verb,
modifiers and target table; everything else only has its whitespace collapsed.

Examples:
  ioprof normalize "insert ignore into log (a) values (1)"
  cat queries.sql | ioprof normalize`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) > 0 {
			for _, stmt := range args {
				if _, err := fmt.Fprintln(out, profiler.NormalizeSQL(stmt)); err != nil {
					return err
				}
			}
			return nil
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			if _, err := fmt.Fprintln(out, profiler.NormalizeSQL(line)); err != nil {
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read statements: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}
