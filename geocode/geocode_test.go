package geocode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticCountryLookup(t *testing.T) {
	lat, lon, ok := Static{}.Locate(context.Background(), "Brazil")

	assert.True(t, ok)
	assert.InDelta(t, -15.78, lat, 0.01)
	assert.InDelta(t, -47.93, lon, 0.01)
}

func TestStaticLastTokenFallback(t *testing.T) {
	lat, _, ok := Static{}.Locate(context.Background(), "Rio de Janeiro, Brazil")

	assert.True(t, ok)
	assert.InDelta(t, -15.78, lat, 0.01)
}

func TestStaticUnknownLocation(t *testing.T) {
	_, _, ok := Static{}.Locate(context.Background(), "Atlantis")

	assert.False(t, ok)
}
