package inflation

import (
	"context"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/jonathan/monotributo-historico/internal/fetch"
	"github.com/shopspring/decimal"
)

// entry is the wire shape of one series point: {"fecha": "2017-01-31", "valor": 1.6}
type entry struct {
	Fecha string          `json:"fecha"`
	Valor decimal.Decimal `json:"valor"`
}

// Client fetches the inflation series from an HTTP endpoint.
type Client struct {
	url     string
	options *fetch.Options
}

// NewClient creates a client for the endpoint at url.
func NewClient(url string, timeout time.Duration) *Client {
	opts := fetch.DefaultOptions()
	if timeout > 0 {
		opts.Timeout = timeout
	}
	opts.Headers = map[string]string{"Accept": "application/json"}
	return &Client{url: url, options: opts}
}

// Fetch downloads and decodes the series.
func (c *Client) Fetch(ctx context.Context) (*Series, error) {
	result, err := fetch.URL(ctx, c.url, c.options)
	if err != nil {
		return nil, &IndexError{URL: c.url, Message: "failed to download series", Cause: err}
	}
	return Decode(c.url, result.Body)
}

// Decode parses a series payload. Entries with unparseable dates are rejected.
func Decode(source string, body []byte) (*Series, error) {
	var entries []entry
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, &entries); err != nil {
		return nil, &IndexError{URL: source, Message: "failed to decode series", Cause: err}
	}
	if len(entries) == 0 {
		return nil, &IndexError{URL: source, Message: "no points", Cause: ErrEmptySeries}
	}

	points := make([]Point, 0, len(entries))
	for _, e := range entries {
		date, err := parseDate(e.Fecha)
		if err != nil {
			return nil, &IndexError{URL: source, Message: "invalid date " + e.Fecha, Cause: err}
		}
		points = append(points, Point{Date: date, YearMonth: date.Format("2006-01"), Value: e.Valor})
	}
	return NewSeries(points), nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len("2006-01-02") {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
	}
	return time.Parse("2006-01-02", s)
}
