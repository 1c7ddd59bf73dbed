package sepush

import (
	"time"
)

// AreaInfo holds everything needed to monitor one area: upcoming events and
// the raw schedule per stage.
type AreaInfo struct {
	// Events is sorted and empty when the area is not impacted.
	Events   []Event  `json:"events"`
	Info     Info     `json:"info"`
	Schedule Schedule `json:"schedule"`
}

// Event is one upcoming outage, e.g. start "2022-08-08T20:00:00+02:00" with note "Stage 2".
type Event struct {
	End   string `json:"end"`
	Note  string `json:"note"`
	Start string `json:"start"`
}

// StartTime parses Start as RFC 3339.
func (e Event) StartTime() (time.Time, error) { return time.Parse(time.RFC3339, e.Start) }

// EndTime parses End as RFC 3339.
func (e Event) EndTime() (time.Time, error) { return time.Parse(time.RFC3339, e.End) }

// Info names the area and the region that schedules it.
type Info struct {
	Name   string `json:"name"`
	Region string `json:"region"`
}

// Schedule is the published rotation and where it was sourced from.
type Schedule struct {
	Days   []Day  `json:"days"`
	Source string `json:"source"`
}

// Day is one date of the schedule.
type Day struct {
	Date string `json:"date"`
	Name string `json:"name"`
	// Stages[0] holds the windows for stage 1, Stages[1] for stage 2 and so on,
	// formatted for display ("20:00-22:30"). Some regions only publish four stages.
	Stages [][]string `json:"stages"`
}

// ForStage returns the outage windows for stage. Regions without a schedule
// for higher stages fall back to the highest one published.
func (d Day) ForStage(stage Stage) []string {
	n, ok := stage.Number()
	if !ok || n <= 0 || len(d.Stages) == 0 {
		return nil
	}
	if n > len(d.Stages) {
		n = len(d.Stages)
	}
	return d.Stages[n-1]
}

// AreaSearch is the result of a free-text area search.
type AreaSearch struct {
	Areas []SearchArea `json:"areas"`
}

// SearchArea is one match of AreasSearch.
type SearchArea struct {
	// ID is what AreaInfo expects.
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// AreasNearby lists areas around a GPS position.
type AreasNearby struct {
	Areas []NearbyArea `json:"areas"`
}

// NearbyArea is an area close to the queried position.
type NearbyArea struct {
	Count  int64  `json:"count"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// TopicsNearby lists user-created topics around a GPS position.
type TopicsNearby struct {
	Topics []Topic `json:"topics"`
}

// Topic is a user report around the queried position.
type Topic struct {
	Active    string  `json:"active"`
	Body      string  `json:"body"`
	Category  string  `json:"category"`
	Distance  float64 `json:"distance"`
	Followers int64   `json:"followers"`
	Timestamp string  `json:"timestamp"`
}

// AllowanceCheck wraps the quota of the token.
type AllowanceCheck struct {
	Allowance Allowance `json:"allowance"`
}

// Allowance is the daily call quota.
type Allowance struct {
	// Count excludes calls to the allowance endpoint.
	Count int64  `json:"count"`
	Limit int64  `json:"limit"`
	Type  string `json:"type"`
}

// Remaining returns the calls left today, never negative.
func (a Allowance) Remaining() int64 {
	if a.Count >= a.Limit {
		return 0
	}
	return a.Limit - a.Count
}
