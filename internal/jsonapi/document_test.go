package jsonapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestNormalizeProductEnvelope(t *testing.T) {
	raw := decode(t, `{"data":{"type":"product","id":"1","attributes":{"name":"keyboard"}}}`)
	r := NormalizeProduct(raw, 1)
	assert.Equal(t, "product", r.Type)
	assert.Equal(t, "1", r.ID)
	assert.Equal(t, "keyboard", r.Attributes["name"])
}

func TestNormalizeProductShapedPayload(t *testing.T) {
	raw := decode(t, `{"type":"product","id":"42","attributes":{"price":9.99}}`)
	r := NormalizeProduct(raw, 42)
	assert.Equal(t, "product", r.Type)
	assert.Equal(t, "42", r.ID)
	assert.Equal(t, 9.99, r.Attributes["price"])
}

func TestNormalizeProductNumericID(t *testing.T) {
	raw := decode(t, `{"data":{"type":"product","id":7,"attributes":{}}}`)
	r := NormalizeProduct(raw, 7)
	assert.Equal(t, "7", r.ID)
}

func TestNormalizeProductZeroID(t *testing.T) {
	// id 0 is a legitimate identifier and must not fall into the wrap path.
	raw := decode(t, `{"data":{"type":"product","id":0}}`)
	r := NormalizeProduct(raw, 99)
	assert.Equal(t, "product", r.Type)
	assert.Equal(t, "0", r.ID)
}

func TestNormalizeProductWrapsUnshapedPayload(t *testing.T) {
	raw := decode(t, `{"name":"x"}`)
	r := NormalizeProduct(raw, 7)
	assert.Equal(t, "product", r.Type)
	assert.Equal(t, "7", r.ID)
	assert.Equal(t, "x", r.Attributes["name"])
}

func TestNormalizeProductNonObjectPayload(t *testing.T) {
	r := NormalizeProduct(decode(t, `[1,2,3]`), 3)
	assert.Equal(t, "product", r.Type)
	assert.Equal(t, "3", r.ID)
	assert.Nil(t, r.Attributes)
}

func TestNewDocument(t *testing.T) {
	primary := Resource{Type: "inventory", ID: "5", Attributes: map[string]any{"quantity": int64(50)}}
	included := []Resource{{Type: "product", ID: "1"}}
	doc := NewDocument(primary, included, "/inventory/1")
	assert.Equal(t, primary, doc.Data)
	assert.Len(t, doc.Included, 1)
	assert.Equal(t, "/inventory/1", doc.Links["self"])
}

func TestDocumentOmitsEmptyIncluded(t *testing.T) {
	doc := NewDocument(Resource{Type: "inventory", ID: "5"}, nil, "/inventory/5")
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "included")
}
