package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fxconvert-service/internal/application"
	"fxconvert-service/internal/domain"
	infraconfig "fxconvert-service/internal/infrastructure/config"
	"fxconvert-service/internal/infrastructure/http/openapi"
	"fxconvert-service/internal/infrastructure/logx"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	svc      *application.ConversionService
	ping     func(ctx context.Context) error
	gatherer prometheus.Gatherer
}

var _ openapi.ServerInterface = (*Server)(nil)

func NewServer(svc *application.ConversionService) *Server { return &Server{svc: svc} }

// SetReadyCheck installs the probe used by /readyz.
func (s *Server) SetReadyCheck(ping func(ctx context.Context) error) { s.ping = ping }

// SetMetrics exposes g on /metrics.
func (s *Server) SetMetrics(g prometheus.Gatherer) { s.gatherer = g }

func (s *Server) ConvertQuery(w http.ResponseWriter, r *http.Request, params openapi.ConvertQueryParams) {
	s.convert(w, r, application.ConvertInput{
		From:   deref(params.From),
		To:     deref(params.To),
		Amount: deref(params.Amount),
	})
}

func (s *Server) ConvertBody(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body) == 0 {
		writeError(w, http.StatusBadRequest, "JSON body required")
		return
	}
	s.convert(w, r, application.ConvertInput{
		From:   jsonString(body["from"]),
		To:     jsonString(body["to"]),
		Amount: jsonAmount(body["amount"]),
	})
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request, in application.ConvertInput) {
	rec, err := s.svc.Convert(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrBadRequest):
			writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), application.ErrBadRequest.Error()+": "))
		case errors.Is(err, application.ErrResolutionExhausted):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		default:
			logx.WithFields(r.Context()).Error("convert.failed", zap.Error(err))
			internalError(w)
		}
		return
	}
	writeJSON(w, http.StatusOK, openapi.ConversionResult{
		From:      rec.From,
		To:        rec.To,
		Amount:    rec.Amount,
		Rate:      rec.Rate,
		Converted: rec.Converted,
	})
}

func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request, params openapi.GetHistoryParams) {
	limit := infraconfig.DefaultHistoryLimit
	if params.Limit != nil {
		limit = *params.Limit
	}
	recs, err := s.svc.History(r.Context(), limit)
	if err != nil {
		if errors.Is(err, application.ErrHistoryUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "history unavailable")
			return
		}
		logx.WithFields(r.Context()).Error("history.failed", zap.Error(err))
		internalError(w)
		return
	}
	resp := make([]openapi.HistoryEntry, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, historyEntry(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	h := s.svc.Health()
	writeJSON(w, http.StatusOK, openapi.Health{
		Status:         "ok",
		CacheStore:     h.CacheDurable,
		LedgerStore:    h.LedgerDurable,
		ExternalSource: h.ExternalSource,
		StaticRates:    h.StaticRates,
	})
}

func historyEntry(rec domain.ConversionRecord) openapi.HistoryEntry {
	return openapi.HistoryEntry{
		From:      rec.From,
		To:        rec.To,
		Amount:    rec.Amount,
		Rate:      rec.Rate,
		Converted: rec.Converted,
		CreatedAt: rec.CreatedAt,
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// jsonString returns raw as a string, or "" when it is absent or not a JSON string.
func jsonString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// jsonAmount accepts a JSON number or a numeric string. Any other value is
// passed through verbatim so the service rejects it as non-numeric.
func jsonAmount(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, openapi.Error{Code: status, Message: msg})
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
