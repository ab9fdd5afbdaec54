package main

import (
	"context"
	"log"
	"os"

	"go-crisislens/config"
	"go-crisislens/cronjobs"
	"go-crisislens/db"
	"go-crisislens/forecast"
	"go-crisislens/geocode"
	"go-crisislens/handlers"
	"go-crisislens/nlp"
	"go-crisislens/pipeline"
	"go-crisislens/report"
	"go-crisislens/retrieval"
	"go-crisislens/routes"
	"go-crisislens/textgen"
	"go-crisislens/vectorindex"
	"go-crisislens/viz"
)

// buildOrchestrator wires one pipeline over the given store. The demo
// endpoint gets its own instance over the in-memory dataset.
func buildOrchestrator(cfg config.Config, store retrieval.EventStore, geocoder geocode.Geocoder, gen textgen.Generator) *pipeline.Orchestrator {
	renderer := viz.NewHTMLRenderer(cfg.OutputDir)
	return pipeline.New(
		retrieval.NewRetriever(store),
		geocoder,
		forecast.NewEngine(store, gen, renderer),
		renderer,
		report.NewComposer(gen, cfg.ReportsDir),
	)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	for _, dir := range []string{cfg.OutputDir, cfg.ReportsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	// Init firestore
	ctx := context.Background()
	firestoreClient, err := db.NewClient(ctx, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer firestoreClient.Close()
	store := db.NewFirestoreStore(firestoreClient)

	// Geocoding: use the Maps API when a key is configured, the static
	// country table otherwise.
	var geocoder geocode.Geocoder = geocode.Static{}
	if cfg.MapsAPIKey != "" {
		mapsGeocoder, err := geocode.NewMapsGeocoder(cfg.MapsAPIKey)
		if err != nil {
			log.Printf("Maps geocoder unavailable, using static table: %v", err)
		} else {
			geocoder = mapsGeocoder
		}
	}

	// Narrative generation degrades to placeholders without a key.
	var gen textgen.Generator = textgen.Stub{}
	if cfg.OpenAIKey != "" {
		gen = textgen.NewOpenAIGenerator(cfg.OpenAIKey)
	} else {
		log.Println("OPENAI_API_KEY not set, report narratives will be placeholders")
	}

	orchestrator := buildOrchestrator(cfg, store, geocoder, gen)

	// Optional entity-extraction fallback for prompts outside the country
	// vocabulary.
	if cfg.NaturalLanguageCredentials != "" {
		langClient, err := nlp.InitLanguageClient(cfg.NaturalLanguageCredentials)
		if err != nil {
			log.Printf("Natural Language client unavailable: %v", err)
		} else {
			defer nlp.CloseLanguageClient()
			orchestrator.WithLocationResolver(nlp.NewLocationResolver(langClient))
		}
	}

	demo := buildOrchestrator(cfg, retrieval.NewMemoryStore(handlers.DemoEvents()), geocoder, gen)

	var index *vectorindex.Index
	if cfg.WeaviateURL != "" {
		index, err = vectorindex.New(cfg.WeaviateURL, cfg.WeaviateScheme)
		if err != nil {
			log.Printf("Vector index unavailable: %v", err)
			index = nil
		} else if err := index.EnsureSchema(ctx); err != nil {
			log.Printf("Vector index schema setup failed: %v", err)
			index = nil
		}
	}

	// Initialize cron jobs
	cronjobs.InitCronJobs(cfg.OutputDir, cfg.ReportsDir, cfg.ArtifactMaxAgeDays)

	r := routes.SetupRouter(routes.Deps{
		Orchestrator: orchestrator,
		Demo:         demo,
		Index:        index,
		ReportsDir:   cfg.ReportsDir,
		OutputDir:    cfg.OutputDir,
	})
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
