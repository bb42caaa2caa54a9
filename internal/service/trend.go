package service

import (
	"math"

	"github.com/anyulbade/agency-platform/internal/model"
)

type HistoryTrend struct {
	Direction string  `json:"direction"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
}

// TrendOf fits a least-squares line through the daily visits. A series is
// GROWING or DECLINING only when the fit explains at least half the variance.
func TrendOf(history []model.HistoryPoint) HistoryTrend {
	values := make([]float64, len(history))
	for i, p := range history {
		values[i] = float64(p.Visits)
	}

	slope, r2 := linearRegression(values)
	direction := "VOLATILE"
	if len(values) >= 2 && r2 >= 0.5 {
		if slope > 0 {
			direction = "GROWING"
		} else {
			direction = "DECLINING"
		}
	}

	return HistoryTrend{
		Direction: direction,
		Slope:     math.Round(slope*100) / 100,
		RSquared:  math.Round(r2*10000) / 10000,
	}
}

func linearRegression(values []float64) (slope, rSquared float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, 0
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, v := range values {
		predicted := slope*float64(i) + intercept
		ssRes += (v - predicted) * (v - predicted)
		ssTot += (v - meanY) * (v - meanY)
	}

	if ssTot == 0 {
		return slope, 1.0
	}
	return slope, 1 - ssRes/ssTot
}
