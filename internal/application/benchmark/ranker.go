// Package benchmark ranks a scored submission against the distribution of
// its cohort's scores.
package benchmark

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/turtacn/TalentScreen/internal/domain/submission"
	"github.com/turtacn/TalentScreen/internal/infrastructure/monitoring/logging"
)

// Status band boundaries on the overall percentile, and the ratio bands for
// per-skill standing against the cohort skill average.
const (
	topPerformerPercentile = 90
	aboveAveragePercentile = 60
	averagePercentile      = 40

	skillAboveRatio = 1.10
	skillBelowRatio = 0.90

	maxNamedSkills = 3
)

// Ranker compares a submission's score against its cohort.
type Ranker interface {
	// Compare ranks sub within cohortScores.  An empty cohort yields a
	// zeroed comparison with an explanatory recommendation; this is the
	// expected state for the first submission of a new assessment.
	Compare(ctx context.Context, sub *submission.Submission, cohortScores []*submission.ScoreRecord) *submission.BenchmarkComparison
}

// Deps holds the ranker's injected dependencies.
type Deps struct {
	Logger logging.Logger
}

type ranker struct {
	logger logging.Logger
}

// NewRanker creates a benchmark Ranker.
func NewRanker(deps Deps) Ranker {
	log := deps.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ranker{logger: log.Named("benchmark")}
}

func (r *ranker) Compare(ctx context.Context, sub *submission.Submission, cohortScores []*submission.ScoreRecord) *submission.BenchmarkComparison {
	cmp := &submission.BenchmarkComparison{
		SubmissionID: sub.ID,
		ComparedAt:   time.Now().UTC(),
	}
	if sub.Score != nil {
		cmp.CandidateScore = sub.Score.TotalScore
		cmp.CandidatePercentage = sub.Score.Percentage
	}

	percentages := make([]float64, 0, len(cohortScores))
	for _, rec := range cohortScores {
		if rec != nil {
			percentages = append(percentages, rec.Percentage)
		}
	}
	cmp.CohortSize = len(percentages)
	if cmp.CohortSize == 0 {
		cmp.OverallStatus = submission.OverallAverage
		cmp.Recommendations = []string{
			"No cohort data available yet; benchmark comparison will become meaningful as more candidates complete this assessment.",
		}
		return cmp
	}

	cmp.Cohort = cohortStats(percentages)
	cmp.Percentile = percentile(cmp.CandidatePercentage, percentages)
	cmp.OverallStatus = overallStatus(cmp.Percentile)
	if sub.Score != nil {
		cmp.Skills = r.compareSkills(sub.Score.Skills, cohortScores)
	}
	cmp.Recommendations = recommendations(cmp)

	r.logger.Debug("benchmark computed",
		logging.String("submission_id", sub.ID),
		logging.Int("percentile", cmp.Percentile),
		logging.Int("cohort_size", cmp.CohortSize))
	return cmp
}

// percentile is the inclusive rank of v within sample, rounded to an
// integer: a value tied with the maximum scores at the 100th percentile.
func percentile(v float64, sample []float64) int {
	atOrBelow := 0
	for _, x := range sample {
		if x <= v {
			atOrBelow++
		}
	}
	return int(math.Round(100 * float64(atOrBelow) / float64(len(sample))))
}

// cohortStats computes the distribution statistics over a non-empty sample.
func cohortStats(sample []float64) submission.CohortStats {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	sum := 0.0
	for _, x := range sorted {
		sum += x
	}

	n := len(sorted)
	return submission.CohortStats{
		Average:      sum / float64(n),
		Median:       sorted[n/2],
		Top10Percent: sorted[clampIndex(int(math.Floor(0.10*float64(n))), n)],
		Top25Percent: sorted[clampIndex(int(math.Floor(0.25*float64(n))), n)],
	}
}

func clampIndex(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

func overallStatus(pct int) submission.OverallStatus {
	switch {
	case pct >= topPerformerPercentile:
		return submission.OverallTopPerformer
	case pct >= aboveAveragePercentile:
		return submission.OverallAboveAverage
	case pct >= averagePercentile:
		return submission.OverallAverage
	default:
		return submission.OverallBelowAverage
	}
}

// compareSkills ranks each of the candidate's skills against the cohort.
// Skills absent from the candidate's own record are not compared.
func (r *ranker) compareSkills(skills map[string]submission.SkillScore, cohortScores []*submission.ScoreRecord) []submission.SkillComparison {
	if len(skills) == 0 {
		return nil
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	comparisons := make([]submission.SkillComparison, 0, len(names))
	for _, name := range names {
		own := skills[name].Percentage

		var sample []float64
		for _, rec := range cohortScores {
			if rec == nil {
				continue
			}
			if s, ok := rec.Skills[name]; ok {
				sample = append(sample, s.Percentage)
			}
		}

		sc := submission.SkillComparison{
			Skill:               name,
			CandidatePercentage: own,
			Status:              submission.SkillAverage,
		}
		if len(sample) > 0 {
			sum := 0.0
			for _, x := range sample {
				sum += x
			}
			sc.CohortAverage = sum / float64(len(sample))
			sc.Percentile = percentile(own, sample)
			switch {
			case sc.CohortAverage > 0 && own >= skillAboveRatio*sc.CohortAverage:
				sc.Status = submission.SkillAboveAverage
			case own < skillBelowRatio*sc.CohortAverage:
				sc.Status = submission.SkillBelowAverage
			}
		}
		comparisons = append(comparisons, sc)
	}
	return comparisons
}

// recommendations renders percentile standing and the strongest and weakest
// skills as free-form advisory strings.
func recommendations(cmp *submission.BenchmarkComparison) []string {
	var recs []string

	switch cmp.OverallStatus {
	case submission.OverallTopPerformer:
		recs = append(recs, fmt.Sprintf("Candidate scored at the %dth percentile of the cohort; strongly consider for the next round.", cmp.Percentile))
	case submission.OverallAboveAverage:
		recs = append(recs, fmt.Sprintf("Candidate performed better than most of the cohort (%dth percentile).", cmp.Percentile))
	case submission.OverallAverage:
		recs = append(recs, "Candidate performed around the cohort average.")
	default:
		recs = append(recs, fmt.Sprintf("Candidate scored at the %dth percentile; review individual answers before deciding.", cmp.Percentile))
	}

	var weak, strong []string
	for _, sc := range cmp.Skills {
		switch sc.Status {
		case submission.SkillBelowAverage:
			if len(weak) < maxNamedSkills {
				weak = append(weak, sc.Skill)
			}
		case submission.SkillAboveAverage:
			if len(strong) < maxNamedSkills {
				strong = append(strong, sc.Skill)
			}
		}
	}
	if len(strong) > 0 {
		recs = append(recs, fmt.Sprintf("Notable strengths versus the cohort: %s.", strings.Join(strong, ", ")))
	}
	if len(weak) > 0 {
		recs = append(recs, fmt.Sprintf("Below the cohort average in: %s.", strings.Join(weak, ", ")))
	}
	return recs
}
