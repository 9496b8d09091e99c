package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <submission-id>",
		Short: "Evaluate one submission and print the result",
		Long:  "Runs the full evaluation pipeline for a finalized submission\n(scoring, plagiarism, integrity, benchmark) and prints the result as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}

			rt, err := NewRuntime(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.Evaluation.EvaluateSubmission(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	return cmd
}
