package services

import (
	"context"
	"strings"

	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/apperrors"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/filestorage"
	"github.com/rs/zerolog"
)

// fileURL returns the client URL of an optional object key
func fileURL(storage filestorage.FileStorage, key *string) string {
	if key == nil || *key == "" {
		return ""
	}
	return storage.URL(*key)
}

// cleanFileKey normalizes an optional key supplied by a client. Blank keys become nil.
func cleanFileKey(key *string) (*string, error) {
	if key == nil || strings.TrimSpace(*key) == "" {
		return nil, nil
	}
	normalized, err := filestorage.NormalizeKey(*key)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid file key")
	}
	return &normalized, nil
}

// removeReplaced deletes the object behind old when it is no longer referenced by current
func removeReplaced(ctx context.Context, storage filestorage.FileStorage, logger zerolog.Logger, old, current *string) {
	if old == nil || *old == "" {
		return
	}
	if current != nil && *current == *old {
		return
	}
	if err := storage.Delete(ctx, *old); err != nil {
		logger.Warn().Err(err).Str("key", *old).Msg("Failed to delete replaced file")
	}
}
