package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/agency-platform/internal/model"
	"github.com/anyulbade/agency-platform/internal/service"
)

func setupTrafficRouter(t *testing.T) *gin.Engine {
	t.Helper()
	traffic := service.NewTrafficService(nil, nil, nil, service.NewSimulator(service.NewSeedCache()))
	h := NewTrafficHandler(traffic, service.NewReportService(traffic))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	api.GET("/traffic/analysis", h.GetAnalysis)
	api.GET("/traffic/report", h.GetReport)
	return router
}

func get(router *gin.Engine, path string, header ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	router.ServeHTTP(w, req)
	return w
}

func TestTrafficHandler_GetAnalysis(t *testing.T) {
	router := setupTrafficRouter(t)

	t.Run("simulated report", func(t *testing.T) {
		w := get(router, "/api/v1/traffic/analysis?domain=Loja.com.br&country=Brasil&competitors=rival.com.br,%20outra.com.br")
		require.Equal(t, http.StatusOK, w.Code)

		var report model.TrafficAnalysisReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "loja.com.br", report.MainDomain)
		assert.Equal(t, []string{"rival.com.br", "outra.com.br"}, report.Competitors)
		assert.Equal(t, model.TrustEstimated, report.DataTrustLevel)
		assert.Equal(t, "30d", report.TimeRange)
		assert.Len(t, report.ReportData.Main.History, 31)
	})

	t.Run("main domain is dropped from competitors", func(t *testing.T) {
		w := get(router, "/api/v1/traffic/analysis?domain=loja.com.br&country=Brasil&competitors=loja.com.br,,rival.com.br")
		require.Equal(t, http.StatusOK, w.Code)

		var report model.TrafficAnalysisReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, []string{"rival.com.br"}, report.Competitors)
	})

	t.Run("requested time range is ignored", func(t *testing.T) {
		w := get(router, "/api/v1/traffic/analysis?domain=loja.com.br&country=Brasil&time_range=90d")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"time_range":"30d"`)
	})

	t.Run("missing domain", func(t *testing.T) {
		w := get(router, "/api/v1/traffic/analysis?country=Brasil")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("domain with a path", func(t *testing.T) {
		w := get(router, "/api/v1/traffic/analysis?domain=loja.com.br/produtos&country=Brasil")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too many competitors", func(t *testing.T) {
		var comps []string
		for i := 0; i < 11; i++ {
			comps = append(comps, "c"+string(rune('a'+i))+".com")
		}
		w := get(router, "/api/v1/traffic/analysis?domain=loja.com.br&country=Brasil&competitors="+strings.Join(comps, ","))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTrafficHandler_GetReport(t *testing.T) {
	router := setupTrafficRouter(t)

	t.Run("json document", func(t *testing.T) {
		w := get(router, "/api/v1/traffic/report?domain=loja.com.br&country=Brasil&competitors=rival.com.br")
		require.Equal(t, http.StatusOK, w.Code)

		var doc service.ReportDocument
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Equal(t, "loja.com.br", doc.MainDomain)
		assert.Len(t, doc.Intelligence, 1)
		assert.Len(t, doc.Recommendations, 3)
		assert.NotEmpty(t, doc.Trend.Direction)
	})

	t.Run("html via query", func(t *testing.T) {
		w := get(router, "/api/v1/traffic/report?domain=loja.com.br&country=Brasil&format=html")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "<h1>loja.com.br</h1>")
	})

	t.Run("html via accept header", func(t *testing.T) {
		w := get(router, "/api/v1/traffic/report?domain=loja.com.br&country=Brasil", "Accept", "text/html")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	})
}
