package quality

import (
	"time"

	"github.com/skillcatalog/indexer/internal/models"
)

// Weights are the five factor weights; they sum to 1.0.
const (
	weightDocumentation = 0.30
	weightMaintenance   = 0.25
	weightPopularity    = 0.20
	weightSecurity      = 0.15
	weightValidation    = 0.10
)

// Input carries the parse-time signals the quality scorer needs that
// are not persisted on the skill record itself (header count and fenced
// code presence are derived from the body at parse time; validity and
// error count come from the parser's verdict, not the catalog row).
type Input struct {
	HeaderCount int
	FencedCode  bool
	IsValid     bool
	ErrorCount  int
}

// NewInput derives the header-count/fenced-code signals from a skill's raw
// body and pairs them with the parser's validity verdict, producing the
// Input Score needs.
func NewInput(body string, isValid bool, errorCount int) Input {
	return Input{
		HeaderCount: countHeaders(body),
		FencedCode:  hasFencedCode(body),
		IsValid:     isValid,
		ErrorCount:  errorCount,
	}
}

// Score computes the five weighted sub-scores and the overall 0-100
// quality score for a skill, reading GitHubStars/GitHubForks/Topics/
// RepoPushedAt/SecurityScore directly off the record and the given
// parse-time signals for documentation/validation.
func Score(skill *models.Skill, in Input) (int, models.QualityDetails) {
	details := models.QualityDetails{
		Documentation: float64(documentationScore(skill, in.HeaderCount, in.FencedCode)),
		Maintenance:   float64(maintenanceScore(skill, time.Now())),
		Popularity:    float64(popularityScore(skill)),
		Security:      float64(securityFactorScore(skill)),
		Validation:    float64(validationScore(in.IsValid, in.ErrorCount)),
	}

	weighted := details.Documentation*weightDocumentation +
		details.Maintenance*weightMaintenance +
		details.Popularity*weightPopularity +
		details.Security*weightSecurity +
		details.Validation*weightValidation

	return clamp100(roundToInt(weighted)), details
}

func roundToInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
