package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-crisislens/handlers"
	"go-crisislens/pipeline"
	"go-crisislens/vectorindex"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Orchestrator *pipeline.Orchestrator
	// Demo runs against the in-memory dataset; kept separate so the demo
	// endpoint works with no database configured.
	Demo       *pipeline.Orchestrator
	Index      *vectorindex.Index
	ReportsDir string
	OutputDir  string
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Hello, welcome to CrisisLens!",
		})
	})

	// api routes
	api := r.Group("/api/crisislens")
	{
		api.POST("/analyze", func(c *gin.Context) {
			handlers.Analyze(c, deps.Orchestrator)
		})
		api.GET("/demo", func(c *gin.Context) {
			handlers.Demo(c, deps.Demo)
		})
		api.GET("/download-report", func(c *gin.Context) {
			handlers.DownloadReport(c, deps.ReportsDir)
		})
		api.GET("/download-dashboard", func(c *gin.Context) {
			handlers.DownloadDashboard(c, deps.OutputDir)
		})
		api.POST("/index", func(c *gin.Context) {
			handlers.IndexDocument(c, deps.Index)
		})
		api.GET("/search", func(c *gin.Context) {
			handlers.SearchDocuments(c, deps.Index)
		})
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
	}

	return r
}
