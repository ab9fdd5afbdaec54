package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// DownloadReport serves a generated report. With no file parameter the most
// recent report is returned.
func DownloadReport(c *gin.Context, reportsDir string) {
	serveArtifact(c, reportsDir)
}

// DownloadDashboard serves a generated dashboard or chart file.
func DownloadDashboard(c *gin.Context, outputDir string) {
	serveArtifact(c, outputDir)
}

func serveArtifact(c *gin.Context, dir string) {
	name := c.Query("file")
	if name == "" {
		latest, err := latestHTML(dir)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no generated files available"})
			return
		}
		name = latest
	}

	// Base strips any path traversal attempt from the query value.
	name = filepath.Base(name)
	if !strings.HasSuffix(name, ".html") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .html artifacts can be downloaded"})
		return
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found: " + name})
		return
	}

	c.FileAttachment(path, name)
}

// latestHTML finds the most recently modified .html file in dir.
func latestHTML(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var best string
	var bestMod int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().UnixNano() > bestMod {
			best = e.Name()
			bestMod = info.ModTime().UnixNano()
		}
	}
	if best == "" {
		return "", os.ErrNotExist
	}
	return best, nil
}
