package publishers

import (
	"encoding/json"
	"fmt"
)

// message is an event encoded once for every sink.
type message struct {
	ID         string
	Subject    string
	Body       []byte
	Attributes map[string]string
}

func newMessage(evt Event) (message, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return message{}, fmt.Errorf("marshal event: %w", err)
	}
	attrs := map[string]string{"event_id": evt.ID}
	if evt.Change.Region != "" {
		attrs["region"] = evt.Change.Region
	}
	if evt.Change.Stage != "" {
		attrs["stage"] = string(evt.Change.Stage)
	}
	return message{
		ID:         evt.ID,
		Subject:    fmt.Sprintf("%s: %s", evt.Change.Name, evt.Change.StageName),
		Body:       body,
		Attributes: attrs,
	}, nil
}
