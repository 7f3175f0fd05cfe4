// internal/analytics/crosstab_test.go
package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"office-portal/internal/models"
)

func testEvaluators() []models.User {
	return []models.User{
		{ID: 1, Name: "Sato", Role: models.RolePresident, IsActive: true},
		{ID: 2, Name: "Suzuki", Role: models.RoleSales, IsActive: true},
		{ID: 3, Name: "Takahashi", Role: models.RoleSales, IsActive: true},
	}
}

func TestBuildCrossTab_RowCountEqualsPotentialEvaluators(t *testing.T) {
	records := []Record{
		{Evaluator: "Sato", Month: "2025-10", Scores: uniformScores(4), Total: 40},
	}

	ct := BuildCrossTab(records, testEvaluators(), 0)

	assert.Len(t, ct.Rows, 3)
	assert.Equal(t, 1, ct.Submitted)
	assert.True(t, ct.Rows[0].Submitted)
	assert.False(t, ct.Rows[1].Submitted)
	assert.False(t, ct.Rows[2].Submitted)
}

func TestBuildCrossTab_AverageDividesBySubmittersOnly(t *testing.T) {
	records := []Record{
		{Evaluator: "Sato", Month: "2025-10", Scores: uniformScores(4), Total: 40},
		{Evaluator: "Suzuki", Month: "2025-10", Scores: uniformScores(2), Total: 20},
	}

	ct := BuildCrossTab(records, testEvaluators(), 0)

	// Two submitters out of three evaluators: averages divide by 2.
	assert.Equal(t, 3.0, ct.ItemAverages[models.ItemAccuracy])
	assert.Equal(t, 30.0, ct.TotalAverage)
}

func TestBuildCrossTab_UnsubmittedCellsAreNotNumericZero(t *testing.T) {
	records := []Record{
		{Evaluator: "Sato", Month: "2025-10", Scores: uniformScores(5), Total: 50},
	}

	ct := BuildCrossTab(records, testEvaluators(), 0)

	assert.Nil(t, ct.Rows[1].Scores)
	// The lone submitter's values pass through untouched by the absent rows.
	assert.Equal(t, 5.0, ct.ItemAverages[models.ItemAccuracy])
	assert.Equal(t, 50.0, ct.TotalAverage)
}

func TestBuildCrossTab_NoSubmissionsYieldsPlaceholders(t *testing.T) {
	ct := BuildCrossTab(nil, testEvaluators(), 0)

	assert.Len(t, ct.Rows, 3)
	assert.Equal(t, 0, ct.Submitted)
	assert.Equal(t, 0.0, ct.TotalAverage)
	for _, item := range models.ScoreItems {
		assert.Equal(t, 0.0, ct.ItemAverages[item])
	}
}

func TestBuildCrossTab_LatestSubmissionWinsWithinMonth(t *testing.T) {
	records := []Record{
		{Evaluator: "Sato", Month: "2025-10", Scores: uniformScores(2), Total: 20},
		{Evaluator: "Sato", Month: "2025-10", Scores: uniformScores(4), Total: 40},
	}

	ct := BuildCrossTab(records, testEvaluators(), 0)

	assert.Equal(t, 1, ct.Submitted)
	assert.Equal(t, 40, ct.Rows[0].Total)
	assert.Equal(t, 40.0, ct.TotalAverage)
}
