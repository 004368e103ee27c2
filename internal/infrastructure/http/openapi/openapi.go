// Package openapi holds the HTTP contract described in api/openapi.yaml:
// wire models, the server interface and chi route bindings.
package openapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ConversionResult defines model for ConversionResult.
type ConversionResult struct {
	Amount    float64 `json:"amount"`
	Converted float64 `json:"converted"`
	From      string  `json:"from"`
	Rate      float64 `json:"rate"`
	To        string  `json:"to"`
}

// HistoryEntry defines model for HistoryEntry.
type HistoryEntry struct {
	Amount    float64   `json:"amount"`
	Converted float64   `json:"converted"`
	CreatedAt time.Time `json:"createdAt"`
	From      string    `json:"from"`
	Rate      float64   `json:"rate"`
	To        string    `json:"to"`
}

// Health defines model for Health.
type Health struct {
	CacheStore     bool   `json:"cache_store"`
	ExternalSource bool   `json:"external_source"`
	LedgerStore    bool   `json:"ledger_store"`
	StaticRates    int    `json:"static_rates"`
	Status         string `json:"status"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ConvertQueryParams defines parameters for ConvertQuery.
type ConvertQueryParams struct {
	From   *string `form:"from,omitempty" json:"from,omitempty"`
	To     *string `form:"to,omitempty" json:"to,omitempty"`
	Amount *string `form:"amount,omitempty" json:"amount,omitempty"`
}

// GetHistoryParams defines parameters for GetHistory.
type GetHistoryParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /convert)
	ConvertQuery(w http.ResponseWriter, r *http.Request, params ConvertQueryParams)
	// (POST /convert)
	ConvertBody(w http.ResponseWriter, r *http.Request)
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /history)
	GetHistory(w http.ResponseWriter, r *http.Request, params GetHistoryParams)
}

type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ConvertQuery operation middleware
func (siw *ServerInterfaceWrapper) ConvertQuery(w http.ResponseWriter, r *http.Request) {
	var params ConvertQueryParams
	query := r.URL.Query()

	for name, dest := range map[string]**string{
		"from":   &params.From,
		"to":     &params.To,
		"amount": &params.Amount,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
			return
		}
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ConvertQuery(w, r, params)
	}))
	siw.serve(handler, w, r)
}

// ConvertBody operation middleware
func (siw *ServerInterfaceWrapper) ConvertBody(w http.ResponseWriter, r *http.Request) {
	siw.serve(http.HandlerFunc(siw.Handler.ConvertBody), w, r)
}

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.serve(http.HandlerFunc(siw.Handler.GetHealth), w, r)
}

// GetHistory operation middleware
func (siw *ServerInterfaceWrapper) GetHistory(w http.ResponseWriter, r *http.Request) {
	var params GetHistoryParams
	// an unparsable limit falls back to the default
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		params.Limit = nil
	}

	handler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetHistory(w, r, params)
	}))
	siw.serve(handler, w, r)
}

func (siw *ServerInterfaceWrapper) serve(handler http.Handler, w http.ResponseWriter, r *http.Request) {
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/convert", wrapper.ConvertQuery)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/convert", wrapper.ConvertBody)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health", wrapper.GetHealth)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/history", wrapper.GetHistory)
	})
	return r
}
