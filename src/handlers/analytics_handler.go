// backend/src/handlers/analytics_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/tradevault/backend/src/config"
	"github.com/username/tradevault/backend/src/logger"
	"github.com/username/tradevault/backend/src/services"
	"github.com/username/tradevault/backend/src/utils"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(service services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: service}
}

func (h *AnalyticsHandler) HandleGetRiskMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.analyticsService.GetRiskMetrics()
	if err != nil {
		logger.L.Error("Error computing risk metrics", "error", err)
		utils.SendJSONError(w, "Error computing risk metrics", http.StatusInternalServerError)
		return
	}
	writeJSONWithETag(w, r, metrics)
}

func (h *AnalyticsHandler) HandleGetExpectancy(w http.ResponseWriter, r *http.Request) {
	minTrades := config.Cfg.MinTradesPerSetup
	if raw := r.URL.Query().Get("min_trades"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			utils.SendJSONError(w, "min_trades must be a non-negative integer", http.StatusBadRequest)
			return
		}
		minTrades = v
	}

	expectancies, err := h.analyticsService.GetSetupExpectancies(minTrades)
	if err != nil {
		logger.L.Error("Error computing setup expectancies", "error", err)
		utils.SendJSONError(w, "Error computing setup expectancies", http.StatusInternalServerError)
		return
	}
	writeJSONWithETag(w, r, expectancies)
}

func (h *AnalyticsHandler) HandleGetDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.analyticsService.GetRDistribution()
	if err != nil {
		logger.L.Error("Error computing R distribution", "error", err)
		utils.SendJSONError(w, "Error computing R distribution", http.StatusInternalServerError)
		return
	}
	writeJSONWithETag(w, r, dist)
}

func (h *AnalyticsHandler) HandleGetSessions(w http.ResponseWriter, r *http.Request) {
	heatmap, err := h.analyticsService.GetSessionHeatmap()
	if err != nil {
		logger.L.Error("Error computing session heatmap", "error", err)
		utils.SendJSONError(w, "Error computing session heatmap", http.StatusInternalServerError)
		return
	}
	writeJSONWithETag(w, r, heatmap)
}

// writeJSONWithETag encodes the payload with ETag/If-None-Match support so
// dashboards polling the analytics endpoints do not re-download unchanged
// results.
func writeJSONWithETag(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Cache-Control", "no-cache, private")

	currentETag, etagErr := utils.GenerateETag(payload)
	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("%q", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error", "error", etagErr)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Error encoding analytics response", "error", err)
	}
}
