package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/anyulbade/agency-platform/internal/model"
)

//go:embed templates/report.html
var reportTemplate string

// ReportService turns traffic reports into the export document consumed by
// the PDF renderer.
type ReportService struct {
	traffic *TrafficService
	tmpl    *template.Template
}

func NewReportService(traffic *TrafficService) *ReportService {
	funcMap := template.FuncMap{
		"toLower":  strings.ToLower,
		"duration": formatDuration,
		"thousand": formatThousands,
	}
	return &ReportService{
		traffic: traffic,
		tmpl:    template.Must(template.New("report").Funcs(funcMap).Parse(reportTemplate)),
	}
}

type ReportDocument struct {
	GeneratedAt      string                     `json:"generated_at"`
	MainDomain       string                     `json:"main_domain"`
	Country          string                     `json:"country"`
	TimeRange        string                     `json:"time_range"`
	Visits           int64                      `json:"visits"`
	Growth           float64                    `json:"growth"`
	BounceRate       int                        `json:"bounce_rate"`
	AvgDuration      int                        `json:"avg_duration"`
	Intelligence     []model.CompetitiveInsight `json:"intelligence"`
	Recommendations  []string                   `json:"recommendations"`
	OpportunityScore int                        `json:"opportunity_score"`
	DataTrustLevel   model.DataTrustLevel       `json:"data_trust_level"`
	Trend            HistoryTrend               `json:"trend"`
}

func (s *ReportService) GenerateReport(ctx context.Context, domain, country string, competitors []string) *ReportDocument {
	return BuildDocument(s.traffic.GetTrafficAnalysis(ctx, domain, country, competitors), time.Now())
}

func BuildDocument(report *model.TrafficAnalysisReport, generatedAt time.Time) *ReportDocument {
	main := report.ReportData.Main
	return &ReportDocument{
		GeneratedAt:      generatedAt.Format("2006-01-02 15:04:05 MST"),
		MainDomain:       report.MainDomain,
		Country:          report.Country,
		TimeRange:        report.TimeRange,
		Visits:           main.Visits,
		Growth:           main.Growth,
		BounceRate:       main.BounceRate,
		AvgDuration:      main.AvgDuration,
		Intelligence:     report.Insights.Intelligence,
		Recommendations:  report.Insights.Recommendations,
		OpportunityScore: report.OpportunityScore,
		DataTrustLevel:   report.DataTrustLevel,
		Trend:            TrendOf(main.History),
	}
}

func (s *ReportService) RenderHTML(doc *ReportDocument) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
}

func formatThousands(n int64) string {
	if n < 0 {
		return "-" + formatThousands(-n)
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}
