package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ib-77/checkchain/pkg/rop"
	"github.com/ib-77/checkchain/pkg/rop/rules"
)

var lintCmd = &cobra.Command{
	Use:   "lint [rule files...]",
	Short: "Check rule files without validating documents",
	Long: `Check rule files without validating documents.

Every problem of every file is listed, one per line. Exit status is
non-zero when any file has a problem.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	problems := 0
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read rule file: %w", err)
		}

		set, err := rules.ParseRuleSet(content, rules.DetectFormat(path))
		if err != nil {
			for _, e := range rop.GetErrors(err) {
				fmt.Fprintf(out, "%s: %v\n", path, e)
				problems++
			}
			continue
		}

		count := 0
		for _, f := range set.Fields {
			count += len(f.Rules)
		}
		fmt.Fprintf(out, "%s: %d fields, %d rules (null_skip=%t, use_catch=%t)\n",
			path, len(set.Fields), count, set.NullSkip, set.UseCatch)
	}
	if problems > 0 {
		return fmt.Errorf("%w: %d problems", rules.ErrInvalidRule, problems)
	}
	return nil
}
