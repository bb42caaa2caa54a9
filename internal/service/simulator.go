package service

import (
	"fmt"
	"math"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/anyulbade/agency-platform/internal/model"
)

const (
	historyDays      = 30
	simulatedRange   = "30d"
	baseOpportunity  = 50
	maxOpportunity   = 100
	alertGrowthLimit = 20.0
)

// SeedCache memoizes the per-domain seed for the lifetime of the process.
// Entries are never evicted; domains are operator supplied so the set stays
// small.
type SeedCache struct {
	seeds sync.Map
}

func NewSeedCache() *SeedCache {
	return &SeedCache{}
}

// Seed is the sum of the UTF-16 code units of domain.
func (c *SeedCache) Seed(domain string) int {
	if v, ok := c.seeds.Load(domain); ok {
		return v.(int)
	}
	seed := 0
	for _, u := range utf16.Encode([]rune(domain)) {
		seed += int(u)
	}
	v, _ := c.seeds.LoadOrStore(domain, seed)
	return v.(int)
}

func (c *SeedCache) Len() int {
	n := 0
	c.seeds.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Simulator synthesizes traffic intelligence from a domain name when no
// analytics integration can provide real numbers.
type Simulator struct {
	seeds *SeedCache
	now   func() time.Time
}

func NewSimulator(seeds *SeedCache) *Simulator {
	if seeds == nil {
		seeds = NewSeedCache()
	}
	return &Simulator{seeds: seeds, now: time.Now}
}

// WithClock returns a copy of the simulator that dates history points
// relative to now().
func (s *Simulator) WithClock(now func() time.Time) *Simulator {
	return &Simulator{seeds: s.seeds, now: now}
}

func (s *Simulator) AnalyzeDomain(domain, country string) model.TrafficMetrics {
	seed := s.seeds.Seed(domain)
	baseVisits := int64(seed%1000)*1500 + 5000

	today := s.now().UTC()
	history := make([]model.HistoryPoint, 0, historyDays+1)
	for offset := historyDays; offset >= 0; offset-- {
		fluctuation := math.Sin(float64(seed+offset)*0.5)*0.15 + 1
		history = append(history, model.HistoryPoint{
			Date:   today.AddDate(0, 0, -offset).Format("2006-01-02"),
			Visits: int64(math.Floor(float64(baseVisits) * fluctuation / float64(historyDays+1))),
		})
	}

	return model.TrafficMetrics{
		Visits:      baseVisits,
		Growth:      float64(seed%40 - 15),
		BounceRate:  35 + seed%30,
		AvgDuration: 120 + seed%300,
		Channels: model.ChannelBreakdown{
			Organic:  30 + seed%40,
			Paid:     5 + seed%20,
			Direct:   15 + seed%15,
			Social:   10 + seed%15,
			Referral: 5 + seed%10,
		},
		TopCountries: []model.CountryShare{
			{Country: country, Share: 60 + seed%20},
			{Country: "United States", Share: 10 + seed%10},
			{Country: "Others", Share: 5 + seed%5},
		},
		History: history,
	}
}

// GenerateInsights compares every competitor against main. competitors
// must already hold the metrics for each domain in order.
func (s *Simulator) GenerateInsights(main model.TrafficMetrics, order []string, competitors map[string]model.TrafficMetrics) []model.CompetitiveInsight {
	insights := make([]model.CompetitiveInsight, 0, len(order))
	for _, domain := range order {
		comp := competitors[domain]
		insight := model.CompetitiveInsight{Domain: domain}

		if comp.Channels.Organic > main.Channels.Organic {
			insight.Advantage = "SEO Orgânico mais forte"
		} else {
			insight.Advantage = "Tráfego Direto consolidado"
		}

		if comp.Growth > main.Growth {
			insight.Gap = "Crescimento mensal superior ao seu"
		} else {
			insight.Gap = "Menor engajamento de sessão"
		}

		if comp.Channels.Paid > 15 {
			insight.Opportunity = "Explorar Google Ads para este nicho"
		} else {
			insight.Opportunity = "Focar em parcerias de Referência"
		}

		if comp.Growth > alertGrowthLimit {
			insight.Alert = fmt.Sprintf("Atenção: %s cresceu %.0f%% no último mês", domain, comp.Growth)
		}

		insights = append(insights, insight)
	}
	return insights
}

func (s *Simulator) Recommendations(main model.TrafficMetrics) []string {
	organic := fmt.Sprintf("Seu tráfego orgânico representa %d%% do total; ", main.Channels.Organic)
	if main.Channels.Organic < 40 {
		organic += "invista em SEO técnico e produção de conteúdo para reduzir a dependência de mídia paga."
	} else {
		organic += "mantenha a cadência de conteúdo para consolidar a liderança orgânica."
	}

	bounce := fmt.Sprintf("A taxa de rejeição está em %d%%; ", main.BounceRate)
	if main.BounceRate < 50 {
		bounce += "o engajamento é saudável, teste CTAs mais agressivos nas páginas de entrada."
	} else {
		bounce += "revise velocidade de carregamento e aderência das landing pages à intenção de busca."
	}

	social := fmt.Sprintf("Redes sociais trazem %d%% das visitas; ", main.Channels.Social)
	if main.Channels.Social < 15 {
		social += "há espaço para campanhas de distribuição em redes sociais."
	} else {
		social += "aproveite a audiência social com remarketing."
	}

	return []string{organic, bounce, social}
}

// OpportunityScore is an additive heuristic in [0, 100].
func (s *Simulator) OpportunityScore(main model.TrafficMetrics, competitors map[string]model.TrafficMetrics) int {
	score := baseOpportunity

	if len(competitors) > 0 {
		var total int64
		for _, c := range competitors {
			total += c.Visits
		}
		avg := float64(total) / float64(len(competitors))
		if avg > float64(main.Visits) {
			score += 20
		}
	}
	if main.Growth < 10 {
		score += 15
	}
	if main.Channels.Organic < 40 {
		score += 15
	}

	if score > maxOpportunity {
		score = maxOpportunity
	}
	return score
}

func (s *Simulator) GenerateFullReport(domain, country string, competitors []string) *model.TrafficAnalysisReport {
	main := s.AnalyzeDomain(domain, country)

	order := make([]string, 0, len(competitors))
	compMetrics := make(map[string]model.TrafficMetrics, len(competitors))
	for _, c := range competitors {
		if _, seen := compMetrics[c]; seen {
			continue
		}
		compMetrics[c] = s.AnalyzeDomain(c, country)
		order = append(order, c)
	}

	return &model.TrafficAnalysisReport{
		ID:          uuid.NewString(),
		MainDomain:  domain,
		Country:     country,
		Competitors: order,
		TimeRange:   simulatedRange,
		ReportData: model.ReportData{
			Main:        main,
			Competitors: compMetrics,
		},
		Insights: model.ReportInsights{
			Intelligence:    s.GenerateInsights(main, order, compMetrics),
			Recommendations: s.Recommendations(main),
		},
		OpportunityScore: s.OpportunityScore(main, compMetrics),
		DataTrustLevel:   model.TrustEstimated,
		IsPublic:         false,
		CreatedAt:        s.now().UTC(),
	}
}
