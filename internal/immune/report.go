package immune

import (
	"math"
	"sort"
)

// SavingsPerEarlyDetection is the estimated loss avoided, in USD, for every
// anomaly caught below the high alert level.
const SavingsPerEarlyDetection = 5000

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
)

type Report struct {
	TotalAnomalies      int                `json:"total_anomalies"`
	CriticalAnomalies   int                `json:"critical_anomalies"`
	CriticalRatePercent float64            `json:"critical_rate_percent"`
	Trend               Trend              `json:"trend"`
	EstimatedSavingsUSD float64            `json:"estimated_savings_usd"`
	Silhouette          float64            `json:"silhouette"`
	Threshold           float64            `json:"threshold"`
	ByLevel             map[AlertLevel]int `json:"by_level"`
}

// Report summarizes the anomaly history. It reports false when nothing has
// been detected yet.
func (s *System) Report() (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return Report{}, false
	}

	rep := Report{
		TotalAnomalies: len(s.history),
		Silhouette:     s.silhouette,
		Threshold:      s.threshold,
		ByLevel:        make(map[AlertLevel]int),
	}
	perDay := make(map[string]int)
	for _, a := range s.history {
		rep.ByLevel[a.Level]++
		if a.Level >= LevelHigh {
			rep.CriticalAnomalies++
		}
		if a.Level <= LevelMedium {
			rep.EstimatedSavingsUSD += SavingsPerEarlyDetection
		}
		perDay[a.At.UTC().Format("2006-01-02")]++
	}
	rate := float64(rep.CriticalAnomalies) / float64(rep.TotalAnomalies) * 100
	rep.CriticalRatePercent = math.Round(rate*100) / 100
	rep.Trend = dailyTrend(perDay)
	return rep, true
}

// dailyTrend is increasing when per-day counts never drop from one day to
// the next.
func dailyTrend(perDay map[string]int) Trend {
	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)
	for i := 1; i < len(days); i++ {
		if perDay[days[i]] < perDay[days[i-1]] {
			return TrendStable
		}
	}
	return TrendIncreasing
}
