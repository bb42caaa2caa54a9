package model

import "time"

type DataTrustLevel string

const (
	TrustHigh      DataTrustLevel = "High"
	TrustEstimated DataTrustLevel = "Estimated"
)

type ChannelBreakdown struct {
	Organic  int `json:"organic"`
	Paid     int `json:"paid"`
	Direct   int `json:"direct"`
	Social   int `json:"social"`
	Referral int `json:"referral"`
}

type CountryShare struct {
	Country string `json:"country"`
	Share   int    `json:"share"`
}

type HistoryPoint struct {
	Date   string `json:"date"`
	Visits int64  `json:"visits"`
}

type TrafficMetrics struct {
	Visits       int64            `json:"visits"`
	Growth       float64          `json:"growth"`
	BounceRate   int              `json:"bounce_rate"`
	AvgDuration  int              `json:"avg_duration"`
	Channels     ChannelBreakdown `json:"channels"`
	TopCountries []CountryShare   `json:"top_countries"`
	History      []HistoryPoint   `json:"history"`
}

type CompetitiveInsight struct {
	Domain      string `json:"domain"`
	Advantage   string `json:"advantage"`
	Gap         string `json:"gap"`
	Opportunity string `json:"opportunity"`
	Alert       string `json:"alert,omitempty"`
}

type ReportData struct {
	Main        TrafficMetrics            `json:"main"`
	Competitors map[string]TrafficMetrics `json:"competitors"`
}

type ReportInsights struct {
	Intelligence    []CompetitiveInsight `json:"intelligence"`
	Recommendations []string             `json:"recommendations"`
}

type TrafficAnalysisReport struct {
	ID               string         `json:"id"`
	MainDomain       string         `json:"main_domain"`
	Country          string         `json:"country"`
	Competitors      []string       `json:"competitors"`
	TimeRange        string         `json:"time_range"`
	ReportData       ReportData     `json:"report_data"`
	Insights         ReportInsights `json:"insights"`
	OpportunityScore int            `json:"opportunity_score"`
	DataTrustLevel   DataTrustLevel `json:"data_trust_level"`
	IsPublic         bool           `json:"is_public"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ReportCacheEntry is one row of the report cache keyed by (Domain, Country).
type ReportCacheEntry struct {
	Domain         string                 `json:"domain"`
	Country        string                 `json:"country"`
	Data           *TrafficAnalysisReport `json:"data"`
	DataTrustLevel DataTrustLevel         `json:"data_trust_level"`
	LastUpdated    time.Time              `json:"last_updated"`
}

// AnalyticsPerformance is what the external analytics integration reports
// for a domain over the requested window.
type AnalyticsPerformance struct {
	Clicks int64   `json:"clicks"`
	Growth float64 `json:"growth"`
}

type AnalyticsIntegration struct {
	ActorID      string    `json:"actor_id"`
	Provider     string    `json:"provider"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
	SiteURL      string    `json:"site_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
