package cli

import (
	"context"
	"log"
	"net/http"

	"github.com/zlnvch/reviewclient/auth"
	"github.com/zlnvch/reviewclient/cache"
	"github.com/zlnvch/reviewclient/config"
	"github.com/zlnvch/reviewclient/events"
	eventsredis "github.com/zlnvch/reviewclient/events/redis"
	"github.com/zlnvch/reviewclient/events/sqsmq"
	"github.com/zlnvch/reviewclient/gateway/rest"
	"github.com/zlnvch/reviewclient/selectors"
	"github.com/zlnvch/reviewclient/service"
	"github.com/zlnvch/reviewclient/worker"
	"golang.org/x/time/rate"
)

// app owns the one cache instance of the process and everything wired to it.
type app struct {
	cfg      config.Config
	svc      *service.Service
	sel      *selectors.Selectors
	stopped  chan struct{}
	shutdown context.CancelFunc

	redisSink *eventsredis.RedisEventSink
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	// Browsing works signed out; mutations will be rejected by the server
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	if cfg.APIToken != "" {
		var err error
		httpClient, err = auth.NewHTTPClient(ctx, cfg.APIToken, cfg.RequestTimeout)
		if err != nil {
			return nil, err
		}
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestBurst)
	gw := rest.NewClient(cfg.APIURL, httpClient, limiter)

	store := cache.NewStore()
	a := &app{
		cfg: cfg,
		sel: selectors.New(store),
	}

	var queue service.EventQueue
	if cfg.EventsEnabled() {
		sink, err := a.newEventSink(ctx, cfg)
		if err != nil {
			return nil, err
		}
		batcher := worker.NewEventBatcher(sink, int(cfg.EventFlushInterval.Milliseconds()))
		runCtx, cancel := context.WithCancel(context.Background())
		a.shutdown = cancel
		a.stopped = make(chan struct{})
		go func() {
			defer close(a.stopped)
			batcher.Run(runCtx)
		}()
		queue = batcher
	}

	svc, err := service.NewService(store, gw, queue)
	if err != nil {
		a.close()
		return nil, err
	}
	a.svc = svc
	return a, nil
}

// newEventSink opens the configured sinks. Sinks holding connections are kept
// on a so close can release them.
func (a *app) newEventSink(ctx context.Context, cfg config.Config) (events.Sink, error) {
	var sinks events.MultiSink
	if cfg.RedisEndpoint != "" {
		redisSink, err := eventsredis.NewRedisEventSink(ctx, cfg.DevMode, cfg.RedisEndpoint)
		if err != nil {
			return nil, err
		}
		a.redisSink = redisSink
		sinks = append(sinks, redisSink)
	}
	if cfg.SQSQueue != "" {
		sqsSink, err := sqsmq.NewSQSEventSink(ctx, cfg.DevMode, cfg.SQSEndpoint, cfg.SQSQueue)
		if err != nil {
			a.closeSinks()
			return nil, err
		}
		sinks = append(sinks, sqsSink)
	}
	return sinks, nil
}

// close flushes pending mutation events, then releases the sinks.
func (a *app) close() {
	if a.shutdown != nil {
		a.shutdown()
		<-a.stopped
		a.shutdown = nil
		log.Printf("Mutation events flushed")
	}
	a.closeSinks()
}

func (a *app) closeSinks() {
	if a.redisSink == nil {
		return
	}
	if err := a.redisSink.Close(); err != nil {
		log.Printf("Failed to close redis event sink: %v", err)
	}
	a.redisSink = nil
}
