package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/agency-platform/internal/dto"
	"github.com/anyulbade/agency-platform/internal/service"
)

const maxCompetitors = 10

type TrafficHandler struct {
	traffic *service.TrafficService
	reports *service.ReportService
}

func NewTrafficHandler(traffic *service.TrafficService, reports *service.ReportService) *TrafficHandler {
	return &TrafficHandler{traffic: traffic, reports: reports}
}

func (h *TrafficHandler) GetAnalysis(c *gin.Context) {
	q, competitors, ok := bindTrafficQuery(c)
	if !ok {
		return
	}

	report := h.traffic.GetTrafficAnalysis(c.Request.Context(), q.Domain, q.Country, competitors)
	c.JSON(http.StatusOK, report)
}

func (h *TrafficHandler) GetReport(c *gin.Context) {
	q, competitors, ok := bindTrafficQuery(c)
	if !ok {
		return
	}

	doc := h.reports.GenerateReport(c.Request.Context(), q.Domain, q.Country, competitors)

	wantsHTML := c.Query("format") == "html" || strings.Contains(c.GetHeader("Accept"), "text/html")
	if wantsHTML {
		html, err := h.reports.RenderHTML(doc)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render HTML: " + err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	c.JSON(http.StatusOK, doc)
}

func bindTrafficQuery(c *gin.Context) (dto.TrafficAnalysisQuery, []string, bool) {
	var q dto.TrafficAnalysisQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "validation failed: " + err.Error()})
		return q, nil, false
	}
	q.Domain = strings.ToLower(q.Domain)

	var competitors []string
	for _, d := range strings.Split(q.Competitors, ",") {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" || d == q.Domain {
			continue
		}
		competitors = append(competitors, d)
	}
	if len(competitors) > maxCompetitors {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "validation failed",
			Errors: []dto.ValidationError{{Field: "competitors", Message: "at most 10 competitors"}},
		})
		return q, nil, false
	}
	return q, competitors, true
}
