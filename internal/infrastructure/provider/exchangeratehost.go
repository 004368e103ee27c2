package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"fxconvert-service/internal/application"
	"fxconvert-service/internal/domain"
	"fxconvert-service/internal/infrastructure/httpx"

	"go.uber.org/zap"
)

const (
	exchangeRateHostConvertPath = "/convert"
)

var ErrUnavailable = errors.New("exchange rate source unavailable")

// ExchangeRateHostProvider quotes one unit of the source currency through the
// /convert endpoint.
type ExchangeRateHostProvider struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client
	Log     *zap.Logger
}

var _ application.RateProvider = (*ExchangeRateHostProvider)(nil)

type xrhConvertResp struct {
	Success bool `json:"success"`
	Info    *struct {
		Rate      *float64 `json:"rate"`
		Timestamp int64    `json:"timestamp"`
	} `json:"info"`
	Result *float64 `json:"result"`
	Error  *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

func (p *ExchangeRateHostProvider) Get(ctx context.Context, from, to string) (domain.Quote, error) {
	if p.BaseURL == "" {
		return domain.Quote{}, fmt.Errorf("%w: missing base url", ErrUnavailable)
	}
	from, to = domain.NormalizeCurrency(from), domain.NormalizeCurrency(to)

	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: invalid base url: %v", ErrUnavailable, err)
	}
	u.Path = exchangeRateHostConvertPath
	q := u.Query()
	q.Set("from", from)
	q.Set("to", to)
	q.Set("amount", "1")
	if p.APIKey != "" {
		q.Set("access_key", p.APIKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}

	client := p.Client
	if client == nil {
		client = &httpx.Client{}
	}
	var log httpx.Logger
	if p.Log != nil {
		log = p.Log.Sugar()
	}
	var body xrhConvertResp
	if err := client.DoJSON(ctx, req, &body, log); err != nil {
		return domain.Quote{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !body.Success {
		if body.Error != nil {
			return domain.Quote{}, fmt.Errorf("%w: %d %s %s", ErrUnavailable, body.Error.Code, body.Error.Type, body.Error.Info)
		}
		return domain.Quote{}, fmt.Errorf("%w: unsuccessful response", ErrUnavailable)
	}

	var rate *float64
	switch {
	case body.Info != nil && body.Info.Rate != nil:
		rate = body.Info.Rate
	case body.Result != nil:
		rate = body.Result
	default:
		return domain.Quote{}, fmt.Errorf("%w: response carries no rate", ErrUnavailable)
	}

	quotedAt := time.Now().UTC()
	if body.Info != nil && body.Info.Timestamp > 0 {
		quotedAt = time.Unix(body.Info.Timestamp, 0).UTC()
	}
	return domain.Quote{From: from, To: to, Rate: *rate, QuotedAt: quotedAt}, nil
}
