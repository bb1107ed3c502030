package worker

import (
	"context"
	"log"
	"time"

	"github.com/zlnvch/reviewclient/events"
)

const maxEventBatch = 25

type EventBatcher struct {
	EventCh            chan events.MutationEvent
	sink               events.Sink
	tickerMilliseconds int
}

func NewEventBatcher(sink events.Sink, tickerMilliseconds int) *EventBatcher {
	return &EventBatcher{
		EventCh:            make(chan events.MutationEvent, 1024), // buffer to absorb bursts
		sink:               sink,
		tickerMilliseconds: tickerMilliseconds,
	}
}

// Enqueue hands ev to the batcher without blocking. A full buffer drops the
// event; the mutation it describes has already settled.
func (b *EventBatcher) Enqueue(ev events.MutationEvent) bool {
	select {
	case b.EventCh <- ev:
		return true
	default:
		log.Printf("Event buffer full, dropping %s %s event for %s", ev.Kind, ev.Op, ev.Target)
		return false
	}
}

func (b *EventBatcher) Run(shutdownCtx context.Context) {
	ticker := time.NewTicker(time.Duration(b.tickerMilliseconds) * time.Millisecond)
	defer ticker.Stop()

	batch := make([]events.MutationEvent, 0, maxEventBatch)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Not derived from shutdownCtx: pending events should still go out on shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.sink.PublishBatch(ctx, batch); err != nil {
			log.Printf("Failed to publish %d mutation events: %v", len(batch), err)
		}
		batch = make([]events.MutationEvent, 0, maxEventBatch)
	}

	for {
		select {
		case ev := <-b.EventCh:
			batch = append(batch, ev)
			if len(batch) == maxEventBatch {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-shutdownCtx.Done():
			// Drain whatever is already buffered
		drain:
			for {
				select {
				case ev := <-b.EventCh:
					batch = append(batch, ev)
					if len(batch) == maxEventBatch {
						flush()
					}
				default:
					break drain
				}
			}
			flush()
			return
		}
	}
}
