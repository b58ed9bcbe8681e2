package types

import "time"

// Candle is a raw OHLCV observation as delivered by the data collaborators
// (CSV files, exchange kline endpoints). The core only consumes the close
// price; see CandlesToPoints.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// CandlesToPoints projects raw candles onto the close-price observations
// the backtest core works with.
func CandlesToPoints(candles []Candle) []PricePoint {
	points := make([]PricePoint, len(candles))
	for i, c := range candles {
		points[i] = PricePoint{Timestamp: c.Timestamp, Price: c.Close}
	}
	return points
}
