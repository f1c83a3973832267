package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ib-77/checkchain/pkg/rop/batch"
	"github.com/ib-77/checkchain/pkg/rop/check"
	"github.com/ib-77/checkchain/pkg/rop/rules"
)

// ErrValidationFailed is returned when at least one document did not pass.
var ErrValidationFailed = errors.New("validation failed")

var (
	rulesFile    string
	workers      int
	keepGoing    bool
	outputFormat string
	ignoreKinds  []string
)

var validateCmd = &cobra.Command{
	Use:   "validate [documents...]",
	Short: "Validate documents against a rule file",
	Long: `Validate one or more YAML, JSON or TOML documents against a rule file.

The rule file sets null_skip and use_catch for every chain. A document
passes when all of its rules hold; otherwise the reason of the first
failing rule is printed. Exit status is non-zero when any document fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "rule file (.yaml, .yml, .json or .toml)")
	validateCmd.Flags().IntVarP(&workers, "workers", "w", batch.DefaultWorkers, "documents validated at once")
	validateCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "keep validating after a rule faults")
	validateCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format: text or json")
	validateCmd.Flags().StringSliceVar(&ignoreKinds, "ignore", nil, "rule kinds to skip")
	_ = validateCmd.MarkFlagRequired("rules")
	rootCmd.AddCommand(validateCmd)
}

type document struct {
	path string
	data map[string]any
}

// verdict is the result type of every document chain.
type verdict struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	set, err := rules.LoadRuleSet(rulesFile)
	if err != nil {
		return err
	}

	engine := rules.NewEngine(rules.WithEngineLogger(logger))
	for _, name := range ignoreKinds {
		kind, err := rules.ParseKind(name)
		if err != nil {
			return err
		}
		engine.Ignore(kind)
	}

	docs := make([]document, 0, len(args))
	for _, path := range args {
		data, err := rules.LoadDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, document{path: path, data: data})
	}

	ctx := batch.WithWorkerOptions(cmd.Context(), workers)
	ctx = batch.WithProcessOptions(ctx, keepGoing)

	build := func(_ context.Context, d document) batch.Validator[verdict] {
		return check.New(verdict{Path: d.path, Reason: "invalid document"},
			check.WithNullSkip(set.NullSkip),
			check.WithCatch(set.UseCatch),
			check.WithLogger(logger.With("document", d.path))).
			SetResultFactory(func(reason string) verdict {
				return verdict{Path: d.path, Reason: reason}
			}).
			BuildBy(rules.ForDocument[verdict](engine, set, d.data))
	}
	passed := func(d document) verdict {
		return verdict{Path: d.path}
	}

	reports, runErr := batch.Run(ctx, docs, build, passed, logger)

	verdicts := make([]verdict, len(reports))
	for i, r := range reports {
		v := r.Result
		v.ID = r.ID.String()
		v.Path = docs[i].path
		switch {
		case r.Faulted():
			v.Status = "fault"
			v.Reason = r.Err.Error()
		case r.Passed:
			v.Status = "pass"
		default:
			v.Status = "fail"
		}
		verdicts[i] = v
	}

	if err := printVerdicts(cmd.OutOrStdout(), outputFormat, verdicts, batch.Summarize(reports)); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if !batch.Summarize(reports).OK() {
		return ErrValidationFailed
	}
	return nil
}

func printVerdicts(w io.Writer, format string, verdicts []verdict, summary batch.Summary) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(verdicts)
	case "", "text":
		for _, v := range verdicts {
			if v.Reason == "" {
				fmt.Fprintf(w, "%-5s %s\n", strings.ToUpper(v.Status), v.Path)
				continue
			}
			fmt.Fprintf(w, "%-5s %s: %s\n", strings.ToUpper(v.Status), v.Path, v.Reason)
		}
		fmt.Fprintf(w, "%d documents: %d passed, %d failed, %d faulted\n",
			summary.Total, summary.Passed, summary.Failed, summary.Faulted)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
