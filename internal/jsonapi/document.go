// Package jsonapi holds the resource and document shapes of the composite
// responses, plus the normalizer for upstream product payloads.
package jsonapi

import (
	"fmt"
	"strconv"
)

// Resource is a typed, identified unit of data following the
// {type, id, attributes} convention.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Relationship links a resource to another by type and id.
type Relationship struct {
	Data ResourceIdentifier `json:"data"`
}

// ResourceIdentifier names a related resource.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Document is the response envelope bundling a primary resource with
// related included resources and navigational links.
type Document struct {
	Data     Resource          `json:"data"`
	Included []Resource        `json:"included,omitempty"`
	Links    map[string]string `json:"links"`
}

// NewDocument assembles a Document from a primary resource, an optional
// list of included resources and a self link path.
func NewDocument(primary Resource, included []Resource, selfLink string) Document {
	return Document{
		Data:     primary,
		Included: included,
		Links:    map[string]string{"self": selfLink},
	}
}

// NormalizeProduct converts an arbitrary upstream payload into a canonical
// product resource. Payloads already shaped as a resource (optionally under
// a "data" envelope) are used as-is with the id coerced to string; anything
// else is wrapped as attributes of a synthesized product resource keyed by
// the requested product id.
func NormalizeProduct(raw any, productID int64) Resource {
	candidate, _ := raw.(map[string]any)
	if inner, ok := candidate["data"].(map[string]any); ok {
		candidate = inner
	}

	typ, _ := candidate["type"].(string)
	id, hasID := candidate["id"]
	if typ != "" && hasID {
		attrs, _ := candidate["attributes"].(map[string]any)
		return Resource{Type: typ, ID: coerceID(id), Attributes: attrs}
	}

	attrs, _ := raw.(map[string]any)
	return Resource{
		Type:       "product",
		ID:         strconv.FormatInt(productID, 10),
		Attributes: attrs,
	}
}

// coerceID renders an upstream identifier as a string. Upstream services
// return numeric and string ids interchangeably; numeric ids must not pick
// up a decimal point or exponent on the way through JSON.
func coerceID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(id, 10)
	case int:
		return strconv.Itoa(id)
	default:
		return fmt.Sprintf("%v", id)
	}
}
