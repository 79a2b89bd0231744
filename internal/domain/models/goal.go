// internal/domain/models/goal.go
package models

import "github.com/dalemusser/ecotrack/internal/app/system/inputval"

// GoalCategory is the footprint area a goal targets.
type GoalCategory string

const (
	CategoryEnergy         GoalCategory = "energy"
	CategoryWaste          GoalCategory = "waste"
	CategoryTransportation GoalCategory = "transportation"
)

// Goal is a sustainability target. Category may be empty for goals set
// through the bulk "set goals" operation, which keeps only the text.
type Goal struct {
	Category        GoalCategory `bson:"category,omitempty" json:"category,omitempty" validate:"omitempty,oneof=energy waste transportation"`
	Goal            string       `bson:"goal" json:"goal" validate:"required"`
	TargetReduction float64      `bson:"target_reduction" json:"targetReduction" validate:"gte=0,lte=100"`
	Progress        float64      `bson:"progress" json:"progress" validate:"gte=0,lte=100"`
	InitialValue    float64      `bson:"initial_value" json:"initialValue"`
	CurrentValue    float64      `bson:"current_value" json:"currentValue"`
}

// ValidateGoals checks every goal in gs.
func ValidateGoals(gs []Goal) error {
	for _, g := range gs {
		if err := inputval.Struct(g); err != nil {
			return err
		}
	}
	return nil
}
