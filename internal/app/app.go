// Package app assembles the assistant and its collaborators from config.
package app

import (
	"context"
	"fmt"

	"github.com/azharlabs/locas"
	"github.com/azharlabs/locas/pkg/config"
	"github.com/azharlabs/locas/pkg/location"
	"github.com/azharlabs/locas/pkg/logx"
	"github.com/azharlabs/locas/pkg/models"
	"github.com/azharlabs/locas/pkg/services"
	"github.com/azharlabs/locas/pkg/store"
)

// BuildAssistant wires the chat model, location extractor, and service
// clients into a ready assistant.
func BuildAssistant(ctx context.Context, cfg *config.Config) (*locas.Assistant, error) {
	model, err := models.NewChatModel(ctx, cfg.Provider, cfg.Model, cfg.ProviderAPIKey())
	if err != nil {
		return nil, fmt.Errorf("build chat model: %w", err)
	}

	geocoder := location.NewChainGeocoder(
		location.NewGoogleGeocoder(cfg.GoogleMapsAPIKey),
		location.NewNominatimGeocoder(""),
	)
	extractor := location.NewParser(model, geocoder)

	places := services.NewPlacesClient(cfg.GoogleMapsAPIKey)
	environment := services.NewEnvironmentClient(cfg.GoogleMapsAPIKey, model)
	analyzer := services.NewAnalyzer(places, environment, model)
	search := services.NewSearchClient(cfg.SerperAPIKey)

	return locas.New(locas.Options{
		Model:       model,
		Extractor:   extractor,
		Places:      places,
		Environment: environment,
		Analyzer:    analyzer,
		Search:      search,
	})
}

// OpenStore picks the configured persistence backend: Postgres, then Mongo,
// then in-memory.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch {
	case cfg.PostgresURL != "":
		logx.Info().Msg("using Postgres store")
		return store.NewPostgresStore(ctx, cfg.PostgresURL)
	case cfg.MongoURI != "":
		logx.Info().Msg("using MongoDB store")
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		logx.Info().Msg("no database configured, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
}
