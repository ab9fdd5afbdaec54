package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go-crisislens/pipeline"
	"go-crisislens/types"
)

const demoPrompt = "Do an analysis on flood in Brazil"

// Demo runs the canned prompt against the in-memory demo dataset so the
// whole workflow can be exercised without a database.
func Demo(c *gin.Context, o *pipeline.Orchestrator) {
	st := o.Run(c.Request.Context(), demoPrompt)
	res := st.Result()

	status := http.StatusOK
	if res.Status == "error" {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{
		"prompt": demoPrompt,
		"result": res,
	})
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

// DemoEvents is a small flood history around Rio de Janeiro, enough rows
// and distinct years to drive stats, clustering and the forecast.
func DemoEvents() []types.Event {
	coords := []struct{ lat, lon float64 }{
		{-22.90, -43.20},
		{-22.94, -43.24},
		{-22.87, -43.16},
		{-22.91, -43.19},
		{-22.89, -43.22},
		{-22.92, -43.18},
		{-3.10, -60.02}, // Manaus, far from the coastal cluster
	}

	var events []types.Event
	for i, pt := range coords {
		year := 2018 + i
		if year > 2023 {
			year = 2023
		}
		lat, lon := pt.lat, pt.lon
		events = append(events, types.Event{
			DisNo:     "demo-" + string(rune('a'+i)),
			Category:  "Flood",
			Subtype:   "Riverine flood",
			EventName: "Seasonal flood",
			Country:   "Brazil",
			Region:    "Americas",
			Subregion: "South America",
			Location:  "Rio de Janeiro, Brazil",
			Latitude:  &lat,
			Longitude: &lon,
			StartYear: year,
			Deaths:    i64(int64(12 + 3*i)),
			Injured:   i64(int64(40 + 5*i)),
			Affected:  i64(int64(1000 + 250*i)),
			DamageUSD: f64(float64(2_000_000 * (i + 1))),
		})
	}
	events[len(events)-1].Location = "Manaus, Brazil"
	return events
}
