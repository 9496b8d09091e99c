package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/TalentScreen/internal/domain/assessment"
	"github.com/turtacn/TalentScreen/internal/domain/submission"
	"github.com/turtacn/TalentScreen/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/TalentScreen/pkg/errors"
)

// importFile is the JSON fixture shape accepted by the import command: one
// assessment, its question bank in order, and any finalized submissions.
type importFile struct {
	Assessment  assessment.Assessment    `json:"assessment"`
	Questions   []assessment.Question    `json:"questions"`
	Submissions []*submission.Submission `json:"submissions"`
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an assessment fixture into the database",
		Long:  "Loads a JSON file holding an assessment, its question bank, and\nfinalized submissions. Existing rows with the same IDs are replaced.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var fixture importFile
			if err := json.Unmarshal(raw, &fixture); err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization, "fixture decode failed")
			}
			if fixture.Assessment.ID == "" {
				return errors.New(errors.ErrCodeValidation, "fixture is missing an assessment id")
			}

			rt, err := NewRuntime(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := cmd.Context()
			asmtRepo := repositories.NewAssessmentRepository(rt.Pool, log)
			if err := asmtRepo.SaveAssessment(ctx, &fixture.Assessment); err != nil {
				return err
			}
			for i := range fixture.Questions {
				if err := asmtRepo.SaveQuestion(ctx, fixture.Assessment.ID, i, &fixture.Questions[i]); err != nil {
					return err
				}
			}

			subRepo := repositories.NewSubmissionRepository(rt.Pool, log)
			for _, sub := range fixture.Submissions {
				if sub.AssessmentID == "" {
					sub.AssessmentID = fixture.Assessment.ID
				}
				if sub.Status == "" {
					sub.Status = submission.StatusPending
				}
				if err := subRepo.Save(ctx, sub); err != nil {
					return err
				}
			}

			fmt.Printf("imported assessment %s: %d question(s), %d submission(s)\n",
				fixture.Assessment.ID, len(fixture.Questions), len(fixture.Submissions))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the fixture JSON file")
	cmd.MarkFlagRequired("file")
	return cmd
}
