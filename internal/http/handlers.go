package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/AndresCespedes/inventory-service/internal/config"
	"github.com/AndresCespedes/inventory-service/internal/inventory"
)

// App holds the handler dependencies.
type App struct {
	Cfg    config.Config
	Engine *inventory.Engine
}

// NewApp builds the HTTP application around the engine.
func NewApp(cfg config.Config, engine *inventory.Engine) *App {
	return &App{Cfg: cfg, Engine: engine}
}

// updateInventoryBody is the PATCH request payload. Quantity is a pointer
// so that a missing field is distinguishable from an explicit zero.
type updateInventoryBody struct {
	Quantity *int64 `json:"quantity"`
}

func (a *App) getInventoryHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	doc, err := a.Engine.Lookup(r.Context(), productID)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

func (a *App) patchInventoryHandler(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, r, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}

	var body updateInventoryBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		msg := "invalid JSON body"
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) {
			msg = "quantity must be an integer"
		}
		WriteJSONError(w, r, http.StatusBadRequest, string(inventory.KindValidation), msg)
		return
	}
	if dec.More() {
		WriteJSONError(w, r, http.StatusBadRequest, string(inventory.KindValidation), "unexpected trailing data")
		return
	}
	if body.Quantity == nil {
		WriteJSONError(w, r, http.StatusBadRequest, string(inventory.KindValidation), "quantity is required")
		return
	}
	if *body.Quantity < 0 {
		WriteJSONError(w, r, http.StatusBadRequest, string(inventory.KindValidation), "quantity must be >= 0")
		return
	}
	doc, err := a.Engine.Upsert(r.Context(), productID, *body.Quantity)
	if err != nil {
		WriteEngineError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		WriteJSONError(w, r, http.StatusBadRequest, string(inventory.KindValidation), "productID must be an integer")
		return 0, false
	}
	return id, true
}
