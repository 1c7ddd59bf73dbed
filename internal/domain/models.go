package domain

import (
	"github.com/Adda-Baaj/sepush/pkg/sepush"
)

// StageChange records a region moving from one load shedding stage to another.
type StageChange struct {
	Region        string             `json:"region"`
	Name          string             `json:"name"`
	PreviousStage sepush.Stage       `json:"previous_stage"`
	Stage         sepush.Stage       `json:"stage"`
	StageName     string             `json:"stage_name"`
	StageUpdated  string             `json:"stage_updated"`
	NextStages    []sepush.NextStage `json:"next_stages"`
	// Initial is set for the first observation of a region.
	Initial bool `json:"initial"`
}

// NewStageChange builds a change for region from its previous and current status.
func NewStageChange(region string, previous sepush.Stage, current sepush.AreaStatus, initial bool) StageChange {
	return StageChange{
		Region:        region,
		Name:          current.Name,
		PreviousStage: previous,
		Stage:         current.Stage,
		StageName:     current.Stage.String(),
		StageUpdated:  current.StageUpdated,
		NextStages:    current.NextStages,
		Initial:       initial,
	}
}
