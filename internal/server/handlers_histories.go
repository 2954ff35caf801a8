package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lottoworks/lottery-api/internal/histories"
	"go.uber.org/zap"
)

type createHistoryPayload struct {
	Mode          string `json:"mode"`
	TopDigitsMode *int   `json:"topDigitsMode"`
	HistoryTop    []int  `json:"historyTop"`
	HistoryBottom []int  `json:"historyBottom"`
	UseLastN      int    `json:"useLastN"`
	WeightMode    string `json:"weightMode"`
	Summary       string `json:"summary"`
}

func (h *httpHandler) handleCreateHistory(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var request createHistoryPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	historyID, err := h.histories.Create(c.Request.Context(), userID, histories.CreateInput{
		Mode:          request.Mode,
		TopDigitsMode: request.TopDigitsMode,
		HistoryTop:    request.HistoryTop,
		HistoryBottom: request.HistoryBottom,
		UseLastN:      request.UseLastN,
		WeightMode:    request.WeightMode,
		Summary:       request.Summary,
	})
	if err != nil {
		if errors.Is(err, histories.ErrMissingField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mode, topDigitsMode and historyTop are required"})
			return
		}
		h.logger.Error("failed to create history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "History saved",
		"historyId": historyID,
	})
}

func (h *httpHandler) handleListHistories(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	records, err := h.histories.ListRecent(c.Request.Context(), userID, histories.DefaultListLimit)
	if err != nil {
		h.logger.Error("failed to list histories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load histories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"histories": records})
}
