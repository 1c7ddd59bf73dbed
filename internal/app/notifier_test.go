package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/sepush/pkg/publishers"
	"github.com/Adda-Baaj/sepush/pkg/sepush"
)

type fakeSource struct {
	mu       sync.Mutex
	statuses []sepush.EskomStatus
	errs     []error
	calls    int
}

func (f *fakeSource) Status(context.Context) (sepush.EskomStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return sepush.EskomStatus{}, f.errs[i]
	}
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	return f.statuses[i], nil
}

type fakeSink struct {
	mu     sync.Mutex
	events []publishers.Event
	err    error
	// delivered overrides the count reported alongside err.
	delivered int
}

func (f *fakeSink) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if f.err != nil {
		return f.delivered, f.err
	}
	return 1, nil
}

func status(stages map[string]sepush.Stage) sepush.EskomStatus {
	out := sepush.EskomStatus{Status: make(map[string]sepush.AreaStatus, len(stages))}
	for region, stage := range stages {
		out.Status[region] = sepush.AreaStatus{Name: region, Stage: stage}
	}
	return out
}

func TestPollPublishesFirstObservationAndChanges(t *testing.T) {
	source := &fakeSource{statuses: []sepush.EskomStatus{
		status(map[string]sepush.Stage{"eskom": "2", "capetown": "1"}),
		status(map[string]sepush.Stage{"eskom": "2", "capetown": "1"}),
		status(map[string]sepush.Stage{"eskom": "4", "capetown": "1"}),
	}}
	sink := &fakeSink{}
	n := New(source, sink, []string{"eskom", "capetown"}, time.Minute, nil)

	for i := 0; i < 3; i++ {
		if err := n.poll(context.Background()); err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
	}

	if len(sink.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(sink.events))
	}
	for _, evt := range sink.events[:2] {
		if !evt.Change.Initial {
			t.Fatalf("expected first observations to be initial: %+v", evt.Change)
		}
	}
	last := sink.events[2].Change
	if last.Region != "eskom" || last.PreviousStage != "2" || last.Stage != "4" || last.Initial {
		t.Fatalf("unexpected change: %+v", last)
	}
	if last.StageName != "Stage 4" {
		t.Fatalf("StageName = %q", last.StageName)
	}
}

func TestPollWatchesAllRegionsWhenUnset(t *testing.T) {
	source := &fakeSource{statuses: []sepush.EskomStatus{
		status(map[string]sepush.Stage{"eskom": "0", "capetown": "0", "durban": "1"}),
	}}
	sink := &fakeSink{}
	n := New(source, sink, nil, time.Minute, nil)

	if err := n.poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(sink.events) != 3 {
		t.Fatalf("expected an event per region, got %d", len(sink.events))
	}
}

func TestPollSkipsMissingRegions(t *testing.T) {
	source := &fakeSource{statuses: []sepush.EskomStatus{
		status(map[string]sepush.Stage{"eskom": "3"}),
	}}
	sink := &fakeSink{}
	n := New(source, sink, []string{"eskom", "joburg"}, time.Minute, nil)

	if err := n.poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(sink.events) != 1 || sink.events[0].Change.Region != "eskom" {
		t.Fatalf("unexpected events: %+v", sink.events)
	}
}

func TestPollReturnsPublishErrors(t *testing.T) {
	source := &fakeSource{statuses: []sepush.EskomStatus{status(map[string]sepush.Stage{"eskom": "1"})}}
	sink := &fakeSink{err: errors.New("sink down")}
	n := New(source, sink, []string{"eskom"}, time.Minute, nil)

	if err := n.poll(context.Background()); err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestPollRetriesUndeliveredChange(t *testing.T) {
	source := &fakeSource{statuses: []sepush.EskomStatus{
		status(map[string]sepush.Stage{"eskom": "2"}),
		status(map[string]sepush.Stage{"eskom": "4"}),
		status(map[string]sepush.Stage{"eskom": "4"}),
		status(map[string]sepush.Stage{"eskom": "4"}),
	}}
	sink := &fakeSink{}
	n := New(source, sink, []string{"eskom"}, time.Minute, nil)

	if err := n.poll(context.Background()); err != nil {
		t.Fatalf("initial poll: %v", err)
	}

	sink.err = errors.New("all sinks down")
	if err := n.poll(context.Background()); err == nil {
		t.Fatalf("expected publish error while sinks are down")
	}

	sink.err = nil
	if err := n.poll(context.Background()); err != nil {
		t.Fatalf("poll after recovery: %v", err)
	}
	if len(sink.events) != 3 {
		t.Fatalf("expected the stage 4 change to be published again, got %d events", len(sink.events))
	}
	retried := sink.events[2].Change
	if retried.PreviousStage != "2" || retried.Stage != "4" {
		t.Fatalf("unexpected retried change: %+v", retried)
	}

	if err := n.poll(context.Background()); err != nil {
		t.Fatalf("poll after delivery: %v", err)
	}
	if len(sink.events) != 3 {
		t.Fatalf("delivered change must not be published twice, got %d events", len(sink.events))
	}
}

func TestPollRemembersPartiallyDeliveredChange(t *testing.T) {
	source := &fakeSource{statuses: []sepush.EskomStatus{
		status(map[string]sepush.Stage{"eskom": "3"}),
		status(map[string]sepush.Stage{"eskom": "3"}),
	}}
	sink := &fakeSink{err: errors.New("one sink down"), delivered: 1}
	n := New(source, sink, []string{"eskom"}, time.Minute, nil)

	if err := n.poll(context.Background()); err == nil {
		t.Fatalf("expected the partial failure to be reported")
	}
	if err := n.poll(context.Background()); err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("change delivered to one sink must not be republished, got %d events", len(sink.events))
	}
}

func TestRunStopsOnForbidden(t *testing.T) {
	source := &fakeSource{
		statuses: []sepush.EskomStatus{{}},
		errs:     []error{&sepush.Error{Kind: sepush.KindForbidden}},
	}
	n := New(source, &fakeSink{}, []string{"eskom"}, time.Millisecond, nil)

	err := n.Run(context.Background())
	if !errors.Is(err, sepush.ErrForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestRunKeepsPollingAfterTransientErrors(t *testing.T) {
	source := &fakeSource{
		statuses: []sepush.EskomStatus{
			{},
			status(map[string]sepush.Stage{"eskom": "2"}),
		},
		errs: []error{&sepush.Error{Kind: sepush.KindServerError, StatusCode: 503}},
	}
	sink := &fakeSink{}
	n := New(source, sink, []string{"eskom"}, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		sink.mu.Lock()
		got := len(sink.events)
		sink.mu.Unlock()
		if got > 0 {
			break
		}
		select {
		case <-deadline:
			cancel()
			t.Fatalf("no event published after transient error")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func TestRunRejectsUninitialized(t *testing.T) {
	var n *Notifier
	if err := n.Run(context.Background()); err == nil {
		t.Fatalf("expected error for nil notifier")
	}
}
