package publishers

import (
	"time"

	"github.com/Adda-Baaj/sepush/internal/domain"
	"github.com/google/uuid"
)

// Event represents the payload published downstream.
type Event struct {
	ID         string             `json:"id"`
	Change     domain.StageChange `json:"change"`
	DetectedAt time.Time          `json:"detected_at"`
}

// NewEvent wraps a stage change with a fresh id and timestamp.
func NewEvent(change domain.StageChange) Event {
	return Event{
		ID:         uuid.NewString(),
		Change:     change,
		DetectedAt: time.Now().UTC(),
	}
}
