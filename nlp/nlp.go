package nlp

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"google.golang.org/api/option"
)

// languageClient a singleton languageClient instance.
var (
	languageClient *language.Client
	clientOnce     sync.Once
	clientErr      error
)

// sends text to the Cloud Natural Language API to extract named entities
// and returns the LOCATION entity names in mention order.
func ExtractLocations(ctx context.Context, client *language.Client, text string) ([]string, error) {
	req := &languagepb.AnalyzeEntitiesRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{
				Content: text,
			},
			Type: languagepb.Document_PLAIN_TEXT,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	}

	resp, err := client.AnalyzeEntities(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("AnalyzeEntities error: %w", err)
	}

	var locations []string
	for _, e := range resp.Entities {
		if e.Type == languagepb.Entity_LOCATION {
			locations = append(locations, e.Name)
		}
	}
	return locations, nil
}

// NewLocationResolver adapts the entity extractor into the parser fallback:
// it returns the first location entity found in the prompt, lowercased, or
// an empty string when extraction finds nothing or fails.
func NewLocationResolver(client *language.Client) func(prompt string) string {
	return func(prompt string) string {
		locations, err := ExtractLocations(context.Background(), client, prompt)
		if err != nil || len(locations) == 0 {
			return ""
		}
		return strings.ToLower(locations[0])
	}
}

// initializes and returns a language client.
func InitLanguageClient(encodedCreds string) (*language.Client, error) {
	clientOnce.Do(func() {
		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			clientErr = fmt.Errorf("failed to decode Natural Language credentials: %w", err)
			return
		}

		opt := option.WithCredentialsJSON(creds)
		languageClient, clientErr = language.NewClient(context.Background(), opt)
	})

	return languageClient, clientErr
}

func CloseLanguageClient() {
	if languageClient != nil {
		languageClient.Close()
	}
}
