package data

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/rs/zerolog/log"

	"github.com/strategy-lab/dca-backtest/internal/monitoring"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

const (
	bybitMaxKlinesPerRequest = 1000
	bybitMaxFetchPages       = 200
)

// BybitProvider fetches historical klines from the Bybit public
// market API. Market klines need no API keys; credentials are only
// passed through when the caller has them configured.
type BybitProvider struct {
	httpClient *bybit_api.Client
	category   string
	interval   string
	start      time.Time
	end        time.Time

	maxRetries   int
	initialDelay time.Duration
}

// BybitConfig holds the configuration for the Bybit provider.
type BybitConfig struct {
	APIKey    string
	APISecret string
	Category  string // "spot", "linear", "inverse"
	Interval  string // Bybit interval code, e.g. "D", "W", "M"
	Start     time.Time
	End       time.Time
}

// NewBybitProvider creates a provider that loads candles for a symbol
// within the configured time range.
func NewBybitProvider(cfg BybitConfig) *BybitProvider {
	if cfg.Category == "" {
		cfg.Category = "spot"
	}
	if cfg.Interval == "" {
		cfg.Interval = "D"
	}

	return &BybitProvider{
		httpClient: bybit_api.NewBybitHttpClient(
			cfg.APIKey,
			cfg.APISecret,
			bybit_api.WithBaseURL(bybit_api.MAINNET),
		),
		category:     cfg.Category,
		interval:     cfg.Interval,
		start:        cfg.Start,
		end:          cfg.End,
		maxRetries:   3,
		initialDelay: time.Second,
	}
}

// Name returns the name of the provider.
func (p *BybitProvider) Name() string {
	return "Bybit Provider"
}

// LoadCandles fetches all candles for the symbol in the configured
// range, paging backwards through the kline endpoint until the range
// is covered.
func (p *BybitProvider) LoadCandles(symbol string) ([]types.Candle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var all []types.Candle
	end := p.end
	if end.IsZero() {
		end = time.Now()
	}

	for page := 0; page < bybitMaxFetchPages; page++ {
		batch, err := p.fetchPage(ctx, symbol, p.start, end)
		if err != nil {
			monitoring.RecordFetch("bybit", "error")
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		all = append(all, batch...)

		oldest := batch[len(batch)-1].Timestamp
		if !p.start.IsZero() && !oldest.After(p.start) {
			break
		}
		if len(batch) < bybitMaxKlinesPerRequest {
			break
		}
		end = oldest.Add(-time.Millisecond)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.Before(all[j].Timestamp)
	})

	monitoring.RecordFetch("bybit", "ok")
	monitoring.RecordCandles("bybit", symbol, len(all))
	log.Info().Str("symbol", symbol).Str("interval", p.interval).Int("candles", len(all)).
		Msg("fetched klines from Bybit")
	return all, nil
}

// fetchPage requests one batch of klines ending at end, newest first,
// retrying transient failures with exponential backoff.
func (p *BybitProvider) fetchPage(ctx context.Context, symbol string, start, end time.Time) ([]types.Candle, error) {
	params := map[string]interface{}{
		"category": p.category,
		"symbol":   symbol,
		"interval": p.interval,
		"limit":    bybitMaxKlinesPerRequest,
		"end":      end.UnixMilli(),
	}
	if !start.IsZero() {
		params["start"] = start.UnixMilli()
	}

	var candles []types.Candle
	delay := p.initialDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}

		result, err := p.httpClient.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
		if err != nil {
			lastErr = fmt.Errorf("failed to get klines: %w", err)
			log.Warn().Str("symbol", symbol).Int("attempt", attempt+1).Err(err).
				Msg("kline request failed, retrying")
			continue
		}

		candles, err = parseKlineResponse(result)
		if err != nil {
			return nil, err
		}
		return candles, nil
	}

	return nil, lastErr
}

// parseKlineResponse decodes Bybit's kline payload. Each list item is
// [startTime, open, high, low, close, volume, turnover] as strings.
func parseKlineResponse(response interface{}) ([]types.Candle, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type")
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var klineResult struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kline result: %w", err)
	}

	candles := make([]types.Candle, 0, len(klineResult.List))
	for _, item := range klineResult.List {
		if len(item) < 6 {
			continue
		}
		candles = append(candles, types.Candle{
			Timestamp: time.UnixMilli(parseInt64(item[0])),
			Open:      parseFloat64(item[1]),
			High:      parseFloat64(item[2]),
			Low:       parseFloat64(item[3]),
			Close:     parseFloat64(item[4]),
			Volume:    parseFloat64(item[5]),
		})
	}
	return candles, nil
}

// ValidateCandles validates the integrity of fetched candles.
func (p *BybitProvider) ValidateCandles(candles []types.Candle) error {
	if len(candles) == 0 {
		return fmt.Errorf("no candles provided")
	}
	for i, candle := range candles {
		if candle.Close <= 0 {
			return fmt.Errorf("invalid candle at index %d: close price must be positive", i)
		}
		if i > 0 && candle.Timestamp.Before(candles[i-1].Timestamp) {
			return fmt.Errorf("invalid timestamp sequence at index %d", i)
		}
	}
	return nil
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat64(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
