package publishers

import (
	"context"
	"errors"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}

type closingPublisher struct{ stubPublisher }

func (c *closingPublisher) Close() error {
	c.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Publisher{
		&stubPublisher{id: "ok", typ: TypeHTTP},
		&stubPublisher{id: "bad", typ: TypeHTTP, err: errors.New("failed")},
	})

	count, err := fanout.Publish(context.Background(), sampleEvent())
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutRoutesByRegion(t *testing.T) {
	national := &stubPublisher{id: "national", typ: TypeHTTP}
	capetown := &stubPublisher{id: "capetown", typ: TypeHTTP}
	all := &stubPublisher{id: "all", typ: TypeHTTP}

	f := &Fanout{}
	f.Add(national, "eskom")
	f.Add(capetown, "capetown")
	f.Add(all)

	count, err := f.Publish(context.Background(), sampleEvent())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if count != 2 || national.calls != 0 || capetown.calls != 1 || all.calls != 1 {
		t.Fatalf("unexpected routing: count=%d national=%d capetown=%d all=%d", count, national.calls, capetown.calls, all.calls)
	}
}

func TestFanoutCloseReleasesClosers(t *testing.T) {
	closer := &closingPublisher{stubPublisher{id: "gcp", typ: TypePubSub}}
	fanout := NewFanout([]Publisher{&stubPublisher{id: "ok", typ: TypeHTTP}, closer, nil})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, got size %d", fanout.Size())
	}
	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closer.closed {
		t.Fatalf("expected closer to be closed")
	}
}

func TestBuildFanoutWithDefaultRegistry(t *testing.T) {
	f, err := DefaultRegistry().BuildFanout(context.Background(), []PublisherConfig{
		{ID: "http", Type: TypeHTTP, Regions: []string{"eskom"}, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildFanout: %v", err)
	}
	if f.Size() != 1 {
		t.Fatalf("expected 1 publisher, got %d", f.Size())
	}
	// sampleEvent is for capetown, so the eskom-only webhook is never called.
	if n, err := f.Publish(context.Background(), sampleEvent()); n != 0 || err != nil {
		t.Fatalf("Publish = %d, %v", n, err)
	}
}

func TestBuildRejectsInvalidConfigs(t *testing.T) {
	reg := DefaultRegistry()
	for _, cfg := range []PublisherConfig{
		{ID: "x", Type: "kafka"},
		{ID: "q", Type: TypeSQS},
		{ID: "h", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{}},
	} {
		if _, err := reg.Build(context.Background(), cfg, nil); err == nil {
			t.Fatalf("expected error for %#v", cfg)
		}
	}
}
