package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/wiredispatch/internal/config"
	"github.com/samvad-hq/wiredispatch/internal/logger"
	"github.com/samvad-hq/wiredispatch/pkg/dispatcher"
	"github.com/samvad-hq/wiredispatch/pkg/httpclient"
	"github.com/samvad-hq/wiredispatch/pkg/request"
	"github.com/samvad-hq/wiredispatch/pkg/sinks"
)

// Runner dispatches catalog requests and forwards each outcome to the
// configured sinks.
type Runner struct {
	cfg        *config.Config
	catalog    *request.Catalog
	dispatcher *dispatcher.Dispatcher
	fanout     *sinks.Fanout
	log        logger.Logger
}

// NewRunner builds a runner from config files. Sinks are optional: with no
// sinks file outcomes are only logged.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := request.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load request catalog: %w", err)
	}
	entries := catalog.All()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	log.InfoObj("request catalog loaded", "catalog_meta", map[string]any{
		"count": len(names),
		"names": names,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	d := dispatcher.New(httpclient.NewRestyClient(cfg.HTTPTimeout), dispatcher.Options{
		Logger:    log,
		QueueSize: cfg.CallbackQueueSize,
		Strict:    cfg.Strict,
	})

	return &Runner{
		cfg:        cfg,
		catalog:    catalog,
		dispatcher: d,
		fanout:     fanout,
		log:        log,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*sinks.Fanout, error) {
	if strings.TrimSpace(cfg.SinksFile) == "" {
		log.InfoObj("no sinks file configured; outcomes are logged only", "sinks_file", "")
		return sinks.NewFanout(nil), nil
	}

	sinkReg, err := sinks.LoadConfig(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}
	enabled := sinkReg.Enabled()

	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, s := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   s.ID,
			"type": s.Type,
		})
	}
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})
	return sinks.NewFanout(built), nil
}

// Catalog exposes the loaded request catalog.
func (r *Runner) Catalog() *request.Catalog {
	if r == nil {
		return nil
	}
	return r.catalog
}

// Run dispatches the named requests (all of them when names is empty)
// concurrently, waits for each completion and publishes the outcomes.
// Outcomes are returned in catalog selection order.
func (r *Runner) Run(ctx context.Context, names ...string) ([]sinks.Outcome, error) {
	if r == nil || r.dispatcher == nil {
		return nil, fmt.Errorf("runner is not initialized")
	}
	entries, err := r.catalog.Select(names...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	r.log.InfoObj("dispatch run started", "run_meta", map[string]any{
		"requests_count": len(entries),
		"sinks_count":    r.fanout.Size(),
		"debug":          r.cfg.Debug,
		"strict":         r.dispatcher.Strict(),
	})

	outcomes := make([]sinks.Outcome, len(entries))
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry request.Entry) {
			defer wg.Done()
			outcomes[i] = r.dispatchOne(ctx, entry)
		}(i, entry)
	}
	wg.Wait()

	var errs []error
	for _, o := range outcomes {
		r.logOutcome(o)
		if _, err := r.fanout.Publish(ctx, o); err != nil {
			r.log.ErrorObj("outcome publish failed", "publish_error", map[string]any{
				"request": o.Request,
				"error":   err.Error(),
			})
			errs = append(errs, fmt.Errorf("publish %s: %w", o.Request, err))
		}
	}

	r.log.InfoObj("dispatch run completed", "run_meta", map[string]any{
		"requests_count": len(entries),
		"elapsed_ms":     time.Since(start).Milliseconds(),
	})
	return outcomes, errors.Join(errs...)
}

// dispatchOne executes a single entry and waits for its completion. A request
// whose completion never fires within the wait yields a no_completion outcome;
// a hostless entry outside strict mode yields it without waiting.
func (r *Runner) dispatchOne(ctx context.Context, entry request.Entry) sinks.Outcome {
	method := entry.Method
	if method == "" {
		method = request.GET
	}
	url := entry.Host + entry.Path
	wire, err := dispatcher.BuildWireRequest(entry.Descriptor)
	switch {
	case err == nil:
		url = wire.URL
	case errors.Is(err, dispatcher.ErrMissingHost) && !r.dispatcher.Strict():
		return sinks.NoCompletion(entry.Name, method.String(), url)
	}

	done := make(chan sinks.Outcome, 1)
	dispatcher.Execute(r.dispatcher, entry.Descriptor, r.cfg.Debug, func(body json.RawMessage, err error) {
		done <- sinks.NewOutcome(entry.Name, method.String(), url, body, err)
	})

	timer := time.NewTimer(r.cfg.CompletionWait)
	defer timer.Stop()

	select {
	case o := <-done:
		return o
	case <-timer.C:
	case <-ctx.Done():
	}
	return sinks.NoCompletion(entry.Name, method.String(), url)
}

func (r *Runner) logOutcome(o sinks.Outcome) {
	fields := map[string]any{
		"request": o.Request,
		"method":  o.Method,
		"url":     o.URL,
		"status":  o.Status,
	}
	if o.Error != "" {
		fields["error"] = o.Error
		r.log.WarnObj("request completed with error", "outcome", fields)
		return
	}
	r.log.InfoObj("request completed", "outcome", fields)
}

// Close releases the dispatcher and any sink clients.
func (r *Runner) Close() error {
	if r == nil {
		return nil
	}
	r.dispatcher.Close()
	return r.fanout.Close()
}
