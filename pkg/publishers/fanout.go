package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Fanout delivers each event to the publishers routed to its region.
type Fanout struct {
	routes []route
}

type route struct {
	pub     Publisher
	regions map[string]struct{}
}

func (r route) accepts(region string) bool {
	if len(r.regions) == 0 {
		return true
	}
	_, ok := r.regions[region]
	return ok
}

// NewFanout routes every event to every publisher in pubs.
func NewFanout(pubs []Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range pubs {
		f.Add(p)
	}
	return f
}

// Add routes events for regions to p; no regions means all of them.
func (f *Fanout) Add(p Publisher, regions ...string) {
	if p == nil {
		return
	}
	r := route{pub: p}
	if len(regions) > 0 {
		r.regions = make(map[string]struct{}, len(regions))
		for _, region := range regions {
			r.regions[region] = struct{}{}
		}
	}
	f.routes = append(f.routes, r)
}

// Publish returns how many publishers accepted evt, with every delivery
// failure joined into the error.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil {
		return 0, nil
	}
	delivered := 0
	var errs []error
	for _, r := range f.routes {
		if !r.accepts(evt.Change.Region) {
			continue
		}
		if err := r.pub.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("publisher %s (%s): %w", r.pub.ID(), r.pub.Type(), err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of routed publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.routes)
}

// Close releases publishers that hold connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, r := range f.routes {
		if c, ok := r.pub.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close publisher %s: %w", r.pub.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
