// internal/models/evaluation.go
package models

// Score item keys, in display order. Nine items are scored 1-5 and
// "potential" is scored 1-10.
const (
	ItemAccuracy      = "accuracy"
	ItemDiscipline    = "discipline"
	ItemCooperation   = "cooperation"
	ItemProactiveness = "proactiveness"
	ItemAgility       = "agility"
	ItemJudgment      = "judgment"
	ItemExpression    = "expression"
	ItemComprehension = "comprehension"
	ItemInterpersonal = "interpersonal"
	ItemPotential     = "potential"
)

// ScoreItems lists every score item key in display order.
var ScoreItems = []string{
	ItemAccuracy,
	ItemDiscipline,
	ItemCooperation,
	ItemProactiveness,
	ItemAgility,
	ItemJudgment,
	ItemExpression,
	ItemComprehension,
	ItemInterpersonal,
	ItemPotential,
}

// ItemMax returns the maximum score for an item.
func ItemMax(item string) int {
	if item == ItemPotential {
		return 10
	}
	return 5
}

// MaxTotalScore is the fixed sum of all item maxima (9x5 + 1x10).
const MaxTotalScore = 55

// ItemLabels maps item keys to their display labels.
var ItemLabels = map[string]string{
	ItemAccuracy:      "Accuracy",
	ItemDiscipline:    "Discipline",
	ItemCooperation:   "Cooperation",
	ItemProactiveness: "Proactiveness",
	ItemAgility:       "Agility",
	ItemJudgment:      "Judgment",
	ItemExpression:    "Expression",
	ItemComprehension: "Comprehension",
	ItemInterpersonal: "Interpersonal",
	ItemPotential:     "Potential",
}

// Evaluation is one submitted score set for a target employee.
// Evaluations are immutable once stored.
type Evaluation struct {
	ID            string         `json:"id"`
	EvaluatorName string         `json:"evaluatorName"`
	TargetName    string         `json:"targetEmployeeName"`
	Month         string         `json:"evaluationMonth"` // "YYYY-MM"
	TotalScore    int            `json:"totalScore"`
	Comment       string         `json:"comment,omitempty"`
	Scores        map[string]int `json:"scores"`
	SubmittedAt   string         `json:"submittedAt"` // RFC3339
}
