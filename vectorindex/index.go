// Package vectorindex stores report and document chunks in Weaviate so the
// API can answer free-text questions against previously generated material.
package vectorindex

import (
	"context"
	"fmt"
	"log"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// ClassName is the Weaviate class holding document chunks.
const ClassName = "DisasterDoc"

const batchSize = 100

// Index wraps the Weaviate client with the chunk schema.
type Index struct {
	client *weaviate.Client
}

// New connects to the Weaviate instance at host with the given scheme.
func New(host, scheme string) (*Index, error) {
	client, err := weaviate.NewClient(weaviate.Config{
		Host:   host,
		Scheme: scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("weaviate client: %w", err)
	}
	return &Index{client: client}, nil
}

func chunkSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       ClassName,
		Description: "Chunked disaster analysis documents",
		Properties: []*models.Property{
			{
				Name:            "source",
				DataType:        []string{"text"},
				Description:     "Originating document name",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:        "ordinal",
				DataType:    []string{"int"},
				Description: "Chunk position within the source document",
			},
			{
				Name:         "text",
				DataType:     []string{"text"},
				Description:  "Chunk content",
				Tokenization: "word",
			},
			{
				Name:            "quarter",
				DataType:        []string{"text"},
				Description:     "Calendar quarter mentioned in the chunk (Q1-Q4)",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "year",
				DataType:        []string{"int"},
				Description:     "Year mentioned in the chunk, 0 when absent",
				IndexFilterable: indexFilterable,
			},
		},
	}
}

// EnsureSchema creates the chunk class if it does not exist. Idempotent.
func (ix *Index) EnsureSchema(ctx context.Context) error {
	_, err := ix.client.Schema().ClassGetter().WithClassName(ClassName).Do(ctx)
	if err == nil {
		return nil
	}

	log.Printf("Creating %s schema", ClassName)
	if err := ix.client.Schema().ClassCreator().WithClass(chunkSchema()).Do(ctx); err != nil {
		return fmt.Errorf("creating %s schema: %w", ClassName, err)
	}
	return nil
}

// IndexChunks batch imports chunks, returning how many landed. Chunk IDs are
// derived from source and ordinal, so re-indexing a document overwrites its
// old chunks instead of duplicating them.
func (ix *Index) IndexChunks(ctx context.Context, chunks []Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	indexed := 0
	for i := 0; i < len(chunks); i += batchSize {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}

		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		objects := make([]*models.Object, len(batch))
		for j, c := range batch {
			id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", c.Source, c.Ordinal)))
			objects[j] = &models.Object{
				ID:    strfmt.UUID(id.String()),
				Class: ClassName,
				Properties: map[string]interface{}{
					"source":  c.Source,
					"ordinal": c.Ordinal,
					"text":    c.Text,
					"quarter": c.Quarter,
					"year":    c.Year,
				},
			}
		}

		result, err := ix.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
		if err != nil {
			return indexed, fmt.Errorf("batch import failed: %w", err)
		}
		for _, obj := range result {
			if obj.Result != nil && obj.Result.Errors == nil {
				indexed++
			}
		}
	}

	return indexed, nil
}

// Search runs a semantic query over the chunks, optionally pinned to a year
// and quarter.
func (ix *Index) Search(ctx context.Context, query string, year int, quarter string, limit int) ([]Chunk, error) {
	if limit <= 0 {
		limit = 10
	}

	var operands []*filters.WhereBuilder
	if year > 0 {
		operands = append(operands, filters.Where().
			WithPath([]string{"year"}).
			WithOperator(filters.Equal).
			WithValueInt(int64(year)))
	}
	if quarter != "" {
		operands = append(operands, filters.Where().
			WithPath([]string{"quarter"}).
			WithOperator(filters.Equal).
			WithValueString(quarter))
	}

	fields := []graphql.Field{
		{Name: "source"},
		{Name: "ordinal"},
		{Name: "text"},
		{Name: "quarter"},
		{Name: "year"},
	}

	nearText := ix.client.GraphQL().NearTextArgBuilder().WithConcepts([]string{query})

	builder := ix.client.GraphQL().Get().
		WithClassName(ClassName).
		WithFields(fields...).
		WithNearText(nearText).
		WithLimit(limit)

	switch len(operands) {
	case 0:
	case 1:
		builder = builder.WithWhere(operands[0])
	default:
		builder = builder.WithWhere(filters.Where().
			WithOperator(filters.And).
			WithOperands(operands))
	}

	result, err := builder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("search error: %s", result.Errors[0].Message)
	}

	data, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	objects, ok := data[ClassName].([]interface{})
	if !ok {
		return nil, nil
	}

	chunks := make([]Chunk, 0, len(objects))
	for _, obj := range objects {
		m, ok := obj.(map[string]interface{})
		if !ok {
			continue
		}
		chunks = append(chunks, Chunk{
			Source:  getString(m, "source"),
			Ordinal: getInt(m, "ordinal"),
			Text:    getString(m, "text"),
			Quarter: getString(m, "quarter"),
			Year:    getInt(m, "year"),
		})
	}
	return chunks, nil
}

func getString(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	// GraphQL numbers decode as float64.
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return 0
}
