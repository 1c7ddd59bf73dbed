package sepush

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NationalKey is the status entry holding the national (Eskom) stage.
const NationalKey = "eskom"

// EskomStatus is the current and upcoming load shedding stage nationally and
// for municipalities that override it (most typically "capetown").
type EskomStatus struct {
	Status map[string]AreaStatus `json:"status"`
}

// UnmarshalJSON lower-cases the region keys so Regions and Area agree.
func (s *EskomStatus) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status map[string]AreaStatus `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Status = make(map[string]AreaStatus, len(raw.Status))
	for k, v := range raw.Status {
		s.Status[strings.ToLower(k)] = v
	}
	return nil
}

// Area returns the status for a region key, ignoring case.
func (s EskomStatus) Area(name string) (AreaStatus, bool) {
	st, ok := s.Status[strings.ToLower(name)]
	return st, ok
}

// Eskom returns the national status.
func (s EskomStatus) Eskom() (AreaStatus, bool) { return s.Area(NationalKey) }

// Regions lists the region keys present in the payload, sorted.
func (s EskomStatus) Regions() []string {
	keys := make([]string, 0, len(s.Status))
	for k := range s.Status {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AreaStatus is the current stage of one region and the stages scheduled after it.
type AreaStatus struct {
	Name         string      `json:"name"`
	NextStages   []NextStage `json:"next_stages"`
	Stage        Stage       `json:"stage"`
	StageUpdated string      `json:"stage_updated"`
}

// NextStage is a stage change announced ahead of time.
type NextStage struct {
	Stage               Stage  `json:"stage"`
	StageStartTimestamp string `json:"stage_start_timestamp"`
}

// Stage is a load shedding stage as sent by the API: "0" (none) through "8".
// Values outside that range are kept verbatim, so two stages are equal
// exactly when their encodings are.
type Stage string

const (
	StageNone Stage = "0"
	Stage1    Stage = "1"
	Stage2    Stage = "2"
	Stage3    Stage = "3"
	Stage4    Stage = "4"
	Stage5    Stage = "5"
	Stage6    Stage = "6"
	Stage7    Stage = "7"
	Stage8    Stage = "8"
)

// ParseStage never fails; the encoding is kept verbatim, whitespace included.
func ParseStage(s string) Stage { return Stage(s) }

// Known reports whether s is one of StageNone..Stage8.
func (s Stage) Known() bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '8'
}

// Number returns the numeric stage, if the encoding is an integer.
func (s Stage) Number() (int, bool) {
	n, err := strconv.Atoi(string(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s Stage) String() string {
	switch {
	case s == StageNone:
		return "No load shedding"
	case s.Known():
		return "Stage " + string(s)
	default:
		return string(s)
	}
}

// UnmarshalJSON accepts the stage as a JSON string or number.
func (s *Stage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = ParseStage(raw)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	*s = Stage(n.String())
	return nil
}
