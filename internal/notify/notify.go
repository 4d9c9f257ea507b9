// Package notify delivers stock change events to interested sinks,
// decoupled from the write path that produces them.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/AndresCespedes/inventory-service/internal/model"
	"github.com/AndresCespedes/inventory-service/internal/obs"
)

// Sink receives change events. Delivery errors stay inside the sink; the
// bus reports them but never propagates them to publishers.
type Sink interface {
	Deliver(ctx context.Context, ev model.ChangeEvent) error
}

// Bus fans change events out to its sinks through a buffered channel.
// Publish never blocks: when the buffer is full the event is dropped and
// counted, because notification is best-effort by contract.
type Bus struct {
	sinks []Sink
	ch    chan model.ChangeEvent
	done  chan struct{}
	wg    sync.WaitGroup

	deliverTimeout time.Duration
}

// NewBus creates a Bus with the given buffer size and starts its
// dispatcher.
func NewBus(buffer int, sinks ...Sink) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	b := &Bus{
		sinks:          sinks,
		ch:             make(chan model.ChangeEvent, buffer),
		done:           make(chan struct{}),
		deliverTimeout: 5 * time.Second,
	}
	b.wg.Add(1)
	go b.dispatch()
	return b
}

// Publish hands an event to the dispatcher without blocking the caller.
func (b *Bus) Publish(ev model.ChangeEvent) {
	select {
	case b.ch <- ev:
	default:
		obs.EventsDropped.Inc()
		obs.Logger.Warn("change_event_dropped",
			"product_id", ev.ProductID, "action", string(ev.Action))
	}
}

func (b *Bus) dispatch() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			// drain what is already buffered before stopping
			for {
				select {
				case ev := <-b.ch:
					b.deliver(ev)
				default:
					return
				}
			}
		case ev := <-b.ch:
			b.deliver(ev)
		}
	}
}

func (b *Bus) deliver(ev model.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), b.deliverTimeout)
	defer cancel()
	for _, s := range b.sinks {
		if err := s.Deliver(ctx, ev); err != nil {
			obs.Logger.Error("change_event_delivery_failed",
				"product_id", ev.ProductID, "action", string(ev.Action), "error", err.Error())
		}
	}
}

// Close stops the dispatcher after draining buffered events.
func (b *Bus) Close() {
	close(b.done)
	b.wg.Wait()
}

// LogSink writes change events to the structured log. It is the default
// sink and stands in for a real event bus.
type LogSink struct{}

func (LogSink) Deliver(ctx context.Context, ev model.ChangeEvent) error {
	attrs := []any{
		"product_id", ev.ProductID,
		"quantity", ev.Quantity,
		"action", string(ev.Action),
	}
	if ev.PreviousQuantity != nil {
		attrs = append(attrs, "previous_quantity", *ev.PreviousQuantity)
	}
	obs.Logger.Info("inventory_changed", attrs...)
	return nil
}
