package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go-crisislens/vectorindex"
)

// IndexDocument chunks the posted document and stores the chunks in the
// vector index.
func IndexDocument(c *gin.Context, idx *vectorindex.Index) {
	if idx == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vector index is not configured"})
		return
	}

	var request struct {
		Source string `json:"source"`
		Text   string `json:"text"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Source == "" || request.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source and text are required"})
		return
	}

	chunks := vectorindex.SplitDocument(request.Source, request.Text, 0, 0)
	indexed, err := idx.IndexChunks(c.Request.Context(), chunks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source":  request.Source,
		"chunks":  len(chunks),
		"indexed": indexed,
	})
}

// SearchDocuments answers a free-text query from the indexed chunks,
// optionally pinned to a year and quarter.
func SearchDocuments(c *gin.Context, idx *vectorindex.Index) {
	if idx == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vector index is not configured"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	year, _ := strconv.Atoi(c.Query("year"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	chunks, err := idx.Search(c.Request.Context(), query, year, c.Query("quarter"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": chunks,
	})
}
