package textgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("Summarize {{.metric}} for {{.country}}", map[string]any{
		"metric":  "total deaths",
		"country": "Brazil",
	})

	require.NoError(t, err)
	assert.Equal(t, "Summarize total deaths for Brazil", out)
}

func TestRenderTemplateBadSyntax(t *testing.T) {
	_, err := RenderTemplate("{{.metric", nil)
	assert.Error(t, err)
}

func TestGenerateOrPlaceholder(t *testing.T) {
	ok := GenerateOrPlaceholder(context.Background(), Stub{}, "hello {{.name}}", map[string]any{"name": "world"})
	assert.Equal(t, "stub: hello world", ok)

	degraded := GenerateOrPlaceholder(context.Background(), Stub{Err: errors.New("quota exceeded")}, "hello", nil)
	assert.Equal(t, Placeholder, degraded)
}

func TestStubFirstLineOnly(t *testing.T) {
	out, err := Stub{}.Generate(context.Background(), "first line\nsecond line", nil)

	require.NoError(t, err)
	assert.Equal(t, "stub: first line", out)
}
