// Package inventory implements the resolution and upsert engine: it
// confirms products against the external product service, reconciles the
// local stock record and assembles the composite response document.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/AndresCespedes/inventory-service/internal/jsonapi"
	"github.com/AndresCespedes/inventory-service/internal/model"
	"github.com/AndresCespedes/inventory-service/internal/obs"
	"github.com/AndresCespedes/inventory-service/internal/store"
)

// Resolver locates a reachable product-service instance and returns the
// decoded payload plus the address that served it.
type Resolver interface {
	Resolve(ctx context.Context, path string) (payload any, source string, err error)
}

// Notifier receives change events after a successful write. Delivery is
// fire-and-forget; implementations must not block or fail the caller.
type Notifier interface {
	Publish(ev model.ChangeEvent)
}

// Engine composes the resolver, the stock-record store and the change
// notifier behind the two public operations, Lookup and Upsert.
type Engine struct {
	resolver Resolver
	store    store.Store
	notifier Notifier
}

// NewEngine wires the engine's collaborators.
func NewEngine(resolver Resolver, st store.Store, notifier Notifier) *Engine {
	return &Engine{resolver: resolver, store: st, notifier: notifier}
}

// Lookup returns the stock document for productID, enriched with the
// product resource fetched from the external service.
func (e *Engine) Lookup(ctx context.Context, productID int64) (jsonapi.Document, error) {
	payload, source, err := e.resolver.Resolve(ctx, productPath(productID))
	if err != nil {
		obs.Lookups.WithLabelValues(string(KindDependencyUnavailable)).Inc()
		return jsonapi.Document{}, newError(KindDependencyUnavailable, productID, err,
			"product service unreachable for product %d", productID)
	}

	productRes := jsonapi.NormalizeProduct(payload, productID)

	rec, err := e.store.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			obs.Lookups.WithLabelValues(string(KindRecordNotFound)).Inc()
			return jsonapi.Document{}, newError(KindRecordNotFound, productID, nil,
				"no stock record for product %d", productID)
		}
		return jsonapi.Document{}, fmt.Errorf("read stock record: %w", err)
	}

	obs.Lookups.WithLabelValues("ok").Inc()
	obs.Logger.Info("inventory_lookup",
		"product_id", productID, "quantity", rec.Quantity, "product_source", source)

	primary := stockResource(rec, productRes.ID)
	self := "/inventory/" + strconv.FormatInt(productID, 10)
	return jsonapi.NewDocument(primary, []jsonapi.Resource{productRes}, self), nil
}

// Upsert replaces the stored quantity for productID wholesale, creating the
// record on first write. The product must be confirmed upstream before any
// local state changes; a change event is emitted only after the write
// persisted.
func (e *Engine) Upsert(ctx context.Context, productID, quantity int64) (jsonapi.Document, error) {
	payload, _, err := e.resolver.Resolve(ctx, productPath(productID))
	if err != nil {
		obs.Upserts.WithLabelValues(string(KindUpstreamProductMissing)).Inc()
		return jsonapi.Document{}, newError(KindUpstreamProductMissing, productID, err,
			"product %d could not be confirmed upstream", productID)
	}

	res, err := e.store.Upsert(ctx, productID, quantity)
	if err != nil {
		return jsonapi.Document{}, fmt.Errorf("persist stock record: %w", err)
	}

	action := model.ActionUpdated
	if res.Created {
		action = model.ActionCreated
	}
	e.notifier.Publish(model.ChangeEvent{
		ProductID:        productID,
		Quantity:         res.Record.Quantity,
		PreviousQuantity: res.PreviousQuantity,
		Action:           action,
	})

	obs.Upserts.WithLabelValues(string(action)).Inc()
	obs.Logger.Info("inventory_upserted",
		"product_id", productID, "quantity", res.Record.Quantity, "action", string(action))

	// The product resource is included on updates but not on creation.
	// The original service behaved this way and callers depend on it.
	var included []jsonapi.Resource
	productRes := jsonapi.NormalizeProduct(payload, productID)
	if !res.Created {
		included = []jsonapi.Resource{productRes}
	}

	primary := stockResource(res.Record, productRes.ID)
	self := "/inventory/" + strconv.FormatInt(res.Record.ID, 10)
	return jsonapi.NewDocument(primary, included, self), nil
}

func productPath(productID int64) string {
	return "products/" + strconv.FormatInt(productID, 10)
}

// stockResource shapes a stock record as the primary inventory resource
// with its relationship to the product.
func stockResource(rec model.StockRecord, productResourceID string) jsonapi.Resource {
	return jsonapi.Resource{
		Type:       "inventory",
		ID:         strconv.FormatInt(rec.ID, 10),
		Attributes: map[string]any{"quantity": rec.Quantity},
		Relationships: map[string]jsonapi.Relationship{
			"product": {
				Data: jsonapi.ResourceIdentifier{Type: "product", ID: productResourceID},
			},
		},
	}
}
