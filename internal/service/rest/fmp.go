package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Akash-repo/service-p/internal/domain/models"
)

// ErrQuoteNotFound is returned when the provider answers without a quote for the symbol.
var ErrQuoteNotFound = errors.New("rest: quote not found")

const tickerPathVar = "ticker"

// fmpQuote is one element of the FMP /quote response.
type fmpQuote struct {
	Symbol    string     `json:"symbol"`
	Price     float64    `json:"price"`
	Volume    float64    `json:"volume"`
	PE        float64    `json:"pe"`
	Timestamp flexString `json:"timestamp"`
}

// fmpQuotes accepts either a JSON array of quotes or a single quote object.
type fmpQuotes []fmpQuote

func (q *fmpQuotes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*q = nil
		return nil
	case len(trimmed) > 0 && trimmed[0] == '{':
		var one fmpQuote
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		*q = fmpQuotes{one}
		return nil
	default:
		var many []fmpQuote
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*q = many
		return nil
	}
}

// flexString keeps a JSON string or number as its textual form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

func (q fmpQuote) toStatistic(symbol string) models.TickerStatistic {
	return models.TickerStatistic{
		Symbol:      symbol,
		Price:       q.Price,
		Volume:      q.Volume,
		PERatio:     q.PE,
		LastUpdated: string(q.Timestamp),
	}
}

// FMPQuoteSource fetches quotes from Financial Modeling Prep through a provider profile.
type FMPQuoteSource struct {
	client   *Client
	provider string
}

// NewFMPQuoteSource binds the source to the named profile.
func NewFMPQuoteSource(client *Client, provider string) *FMPQuoteSource {
	return &FMPQuoteSource{client: client, provider: provider}
}

func (s *FMPQuoteSource) Name() string { return s.provider }

// FetchQuote returns the first quote in the response, keyed by the requested symbol.
func (s *FMPQuoteSource) FetchQuote(ctx context.Context, symbol string) (models.TickerStatistic, error) {
	var quotes fmpQuotes
	if err := s.client.Get(ctx, s.provider, map[string]string{tickerPathVar: symbol}, nil, &quotes); err != nil {
		return models.TickerStatistic{}, err
	}
	if len(quotes) == 0 || quotes[0].Symbol == "" {
		return models.TickerStatistic{}, fmt.Errorf("%w: %s", ErrQuoteNotFound, symbol)
	}
	return quotes[0].toStatistic(symbol), nil
}
