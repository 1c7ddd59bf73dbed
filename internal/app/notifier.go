package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Adda-Baaj/sepush/internal/config"
	"github.com/Adda-Baaj/sepush/internal/domain"
	"github.com/Adda-Baaj/sepush/internal/logger"
	"github.com/Adda-Baaj/sepush/internal/metrics"
	"github.com/Adda-Baaj/sepush/pkg/httpclient"
	"github.com/Adda-Baaj/sepush/pkg/publishers"
	"github.com/Adda-Baaj/sepush/pkg/sepush"
)

// StatusSource returns the current load shedding status.
type StatusSource interface {
	Status(ctx context.Context) (sepush.EskomStatus, error)
}

// EventSink delivers events and reports how many sinks accepted them.
type EventSink interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Notifier polls the status endpoint and publishes an event whenever the
// stage of a watched region changes. The first observation of a region is
// published as well.
type Notifier struct {
	source   StatusSource
	sink     EventSink
	regions  []string
	interval time.Duration
	log      logger.Logger

	last map[string]sepush.Stage

	metricsAddr string
	recorder    *metrics.Recorder
	closers     []func() error
}

// NewNotifier builds a notifier from config: API client, publishers and the
// optional metrics recorder.
func NewNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) (*Notifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.ValidateNotifier(); err != nil {
		return nil, err
	}

	transport, err := httpclient.New(cfg.Transport, cfg.HTTPTimeout)
	if err != nil {
		return nil, err
	}
	recorder := metrics.New()
	client, err := sepush.NewFromEnv(cfg.TokenEnv,
		sepush.WithHTTPClient(transport),
		sepush.WithBaseURL(cfg.BaseURL),
		sepush.WithLogger(log),
		sepush.WithObserver(recorder),
	)
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	set, err := publishers.LoadFile(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers file: %w", err)
	}
	enabledPublishers := set.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers enabled")
	}
	if err := set.CheckRegions(cfg.WatchRegions); err != nil {
		return nil, fmt.Errorf("publishers file: %w", err)
	}

	fanout, err := publishers.DefaultRegistry().BuildFanout(ctx, enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	publisherSummaries := make([]map[string]any, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]any{
			"id":      pubCfg.ID,
			"type":    pubCfg.Type,
			"regions": pubCfg.Regions,
		})
	}
	log.InfoObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	n := New(client, fanout, cfg.WatchRegions, cfg.PollInterval, log)
	n.metricsAddr = cfg.MetricsAddr
	n.recorder = recorder
	n.closers = append(n.closers, fanout.Close)
	return n, nil
}

// New assembles a notifier from its parts. An empty regions list watches
// every region the API reports.
func New(source StatusSource, sink EventSink, regions []string, interval time.Duration, log logger.Logger) *Notifier {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Notifier{
		source:   source,
		sink:     sink,
		regions:  regions,
		interval: interval,
		log:      log,
		last:     make(map[string]sepush.Stage),
	}
}

// Run polls until ctx is cancelled or the API rejects the credentials.
func (n *Notifier) Run(ctx context.Context) error {
	if n == nil || n.source == nil || n.sink == nil {
		return fmt.Errorf("notifier is not initialized")
	}
	if n.interval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	defer n.close()

	stopMetrics := n.serveMetrics()
	defer stopMetrics()

	n.log.InfoObj("notifier loop starting", "notifier_state", map[string]any{
		"regions":       n.regions,
		"poll_interval": n.interval.String(),
	})

	if err := n.poll(ctx); err != nil {
		if fatal(err) {
			return err
		}
		n.log.ErrorObj("initial poll failed", "error", err.Error())
	}

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.log.InfoObj("notifier loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := n.poll(ctx); err != nil {
				if fatal(err) {
					return err
				}
				n.log.ErrorObj("scheduled poll failed", "error", err.Error())
			}
		}
	}
}

// poll fetches the status once and publishes the changes it finds. A change
// is only remembered once it was delivered, so a failed publish is retried
// on the next poll.
func (n *Notifier) poll(ctx context.Context) error {
	start := time.Now()
	status, err := n.source.Status(ctx)
	if err != nil {
		return fmt.Errorf("fetch status: %w", err)
	}

	changes := n.diff(status)
	var errs []error
	for _, change := range changes {
		evt := publishers.NewEvent(change)
		delivered, err := n.sink.Publish(ctx, evt)
		if err != nil {
			errs = append(errs, err)
		}
		if err == nil || delivered > 0 {
			n.last[change.Region] = change.Stage
		}
		n.log.InfoObj("stage change published", "stage_change", map[string]any{
			"event_id":       evt.ID,
			"region":         change.Region,
			"previous_stage": string(change.PreviousStage),
			"stage":          string(change.Stage),
			"initial":        change.Initial,
			"delivered":      delivered,
		})
	}

	n.log.DebugObj("poll completed", "poll_meta", map[string]any{
		"changes":    len(changes),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return errors.Join(errs...)
}

// diff returns the watched regions whose stage differs from the last one
// delivered. It does not record anything.
func (n *Notifier) diff(status sepush.EskomStatus) []domain.StageChange {
	regions := n.regions
	if len(regions) == 0 {
		regions = status.Regions()
	}

	var changes []domain.StageChange
	for _, region := range regions {
		current, ok := status.Area(region)
		if !ok {
			n.log.WarnObj("watched region missing from status", "region", region)
			continue
		}
		previous, seen := n.last[region]
		if seen && previous == current.Stage {
			continue
		}
		changes = append(changes, domain.NewStageChange(region, previous, current, !seen))
	}
	return changes
}

func (n *Notifier) serveMetrics() func() {
	if n.metricsAddr == "" || n.recorder == nil {
		return func() {}
	}
	srv := &http.Server{
		Addr:              n.metricsAddr,
		Handler:           n.recorder.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			n.log.ErrorObj("metrics server failed", "error", err.Error())
		}
	}()
	n.log.InfoObj("metrics server listening", "metrics_addr", n.metricsAddr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func (n *Notifier) close() {
	for _, c := range n.closers {
		if err := c(); err != nil {
			n.log.ErrorObj("notifier close failed", "error", err.Error())
		}
	}
}

// fatal reports errors that no amount of retrying will fix.
func fatal(err error) bool {
	switch sepush.KindOf(err) {
	case sepush.KindTokenNotSet, sepush.KindForbidden:
		return true
	}
	return false
}
