package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/config"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/storage"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/web"
)

// InitStorage selects and returns the configured asset backend
func InitStorage(cfg *config.ServerConfig) (storage.Storage, error) {
	if cfg.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesPrefix,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", cfg.SpacesBucket).Str("prefix", cfg.SpacesPrefix).Msg("serving assets from Spaces")
		return spacesStorage, nil
	}

	if cfg.AssetsDir != "" {
		log.Info().Str("dir", cfg.AssetsDir).Msg("serving assets from local directory")
		return storage.NewLocalStorage(cfg.AssetsDir), nil
	}

	log.Info().Msg("serving embedded assets")
	return storage.NewEmbeddedStorage(web.Public()), nil
}
