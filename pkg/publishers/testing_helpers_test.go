package publishers

import (
	"github.com/Adda-Baaj/sepush/internal/domain"
	"github.com/Adda-Baaj/sepush/pkg/sepush"
)

func sampleEvent() Event {
	return NewEvent(domain.NewStageChange("capetown", sepush.StageNone, sepush.AreaStatus{
		Name:         "Cape Town",
		Stage:        "2",
		StageUpdated: "2022-08-08T16:12:53.725852+02:00",
	}, false))
}
