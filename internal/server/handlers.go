package server

import (
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/aegis/internal/model"
	"go.uber.org/zap"
)

// handleAnalyze produces a trust report for the posted text
func (s *Server) handleAnalyze(c *gin.Context) {
	var req model.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Detail: "Invalid request payload"})
		return
	}

	if utf8.RuneCountInString(req.Text) < s.cfg.MinTextLength {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Detail: "Text is too short for analysis."})
		return
	}

	resp := s.analyzer.Analyze(c.Request.Context(), req.Text)
	s.logger.Info("analysis complete",
		zap.Int("chars", len(req.Text)),
		zap.Float64("ai_score", resp.AIScore),
		zap.Int("claims", len(resp.Claims)),
		zap.Strings("warnings", resp.Warnings))

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
