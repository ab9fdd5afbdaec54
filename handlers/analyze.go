package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go-crisislens/pipeline"
)

// Analyze runs the full workflow for a natural-language prompt.
func Analyze(c *gin.Context, o *pipeline.Orchestrator) {
	var request struct {
		Prompt string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	st := o.Run(c.Request.Context(), request.Prompt)
	res := st.Result()

	status := http.StatusOK
	if res.Status == "error" {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"status":         res.Status,
		"message":        res.Message,
		"dashboard_path": res.DashboardRef,
		"report_path":    res.ReportRef,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
