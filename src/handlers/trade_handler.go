// backend/src/handlers/trade_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/tradevault/backend/src/logger"
	"github.com/username/tradevault/backend/src/models"
	"github.com/username/tradevault/backend/src/services"
	"github.com/username/tradevault/backend/src/utils"
)

type TradeHandler struct {
	importService services.ImportService
}

func NewTradeHandler(service services.ImportService) *TradeHandler {
	return &TradeHandler{importService: service}
}

func (h *TradeHandler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.importService.GetTrades()
	if err != nil {
		logger.L.Error("Error retrieving trades", "error", err)
		utils.SendJSONError(w, "Error retrieving trades", http.StatusInternalServerError)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(trades); err != nil {
		logger.L.Error("Error encoding trades response", "error", err)
	}
}

func (h *TradeHandler) HandleDeleteAllTrades(w http.ResponseWriter, r *http.Request) {
	if err := h.importService.DeleteAllTrades(); err != nil {
		logger.L.Error("Error deleting trades", "error", err)
		utils.SendJSONError(w, "Error deleting trades", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "all trades deleted"})
}
