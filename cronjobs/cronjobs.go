package cronjobs

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// pruneArtifacts removes generated .html files older than maxAge from dir.
func pruneArtifacts(dir string, maxAge time.Duration) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("Error reading artifact dir %s: %v", dir, err)
		return
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				log.Printf("Error removing %s: %v", e.Name(), err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		log.Printf("Pruned %d artifacts from %s", removed, dir)
	}
}

// InitCronJobs schedules periodic cleanup of generated dashboards and
// reports. maxAgeDays bounds how long artifacts stick around.
func InitCronJobs(outputDir, reportsDir string, maxAgeDays int) *cron.Cron {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	if maxAgeDays <= 0 {
		maxAgeDays = 7
	}
	maxAge := time.Duration(maxAgeDays) * 24 * time.Hour

	// Artifact cleanup: run every day at 03:00
	_, err := c.AddFunc("0 3 * * *", func() {
		log.Println("\nCronJob: Artifact Cleanup Running")
		pruneArtifacts(outputDir, maxAge)
		pruneArtifacts(reportsDir, maxAge)
	})
	if err != nil {
		log.Println("Error scheduling Artifact Cleanup:", err)
	}

	c.Start()
	return c
}
