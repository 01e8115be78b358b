package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/model"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/storage"
)

// Path is where the prayer dataset lives inside the asset storage.
const Path = "data/prayers.json"

// Decode parses and validates a prayers document.
func Decode(r io.Reader) (model.Dataset, error) {
	var ds model.Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return model.Dataset{}, fmt.Errorf("failed to decode prayers: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return model.Dataset{}, fmt.Errorf("invalid prayers dataset: %w", err)
	}
	return ds, nil
}

// Load reads the dataset once from storage. The result is treated as immutable
// for the lifetime of the process.
func Load(ctx context.Context, s storage.Storage) (model.Dataset, error) {
	raw, err := storage.ReadAll(ctx, s, Path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to read %s: %w", Path, err)
	}
	ds, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return model.Dataset{}, err
	}
	log.Info().Int("prayers", ds.Len()).Msg("loaded prayer dataset")
	return ds, nil
}
