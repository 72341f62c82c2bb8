package models

// TickerQuery pairs a ticker with a free-form analysis question.
type TickerQuery struct {
	Ticker string `json:"ticker" validate:"required"`
	Query  string `json:"query"`
}

// AnalysisRequest is what callers hand in; the message ID is assigned on publish.
type AnalysisRequest struct {
	Tickers []TickerQuery `json:"tickers" validate:"required,min=1,dive"`
	Email   string        `json:"email"`
}

// AnalysisEnvelope is the wire message sent to the analysis topics.
type AnalysisEnvelope struct {
	MessageID string        `json:"messageId"`
	Tickers   []TickerQuery `json:"tickers"`
	Email     string        `json:"email"`
}

// NewAnalysisEnvelope copies the request so later caller mutations do not leak into the envelope.
func NewAnalysisEnvelope(messageID string, req AnalysisRequest) AnalysisEnvelope {
	tickers := make([]TickerQuery, len(req.Tickers))
	copy(tickers, req.Tickers)
	return AnalysisEnvelope{
		MessageID: messageID,
		Tickers:   tickers,
		Email:     req.Email,
	}
}

// HasTicker reports whether any query in the envelope targets ticker.
func (e AnalysisEnvelope) HasTicker(ticker string) bool {
	for _, t := range e.Tickers {
		if t.Ticker == ticker {
			return true
		}
	}
	return false
}
