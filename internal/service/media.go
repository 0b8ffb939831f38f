package service

import (
	"context"
	"time"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/storage"
)

// mediaLinker swaps stored media keys for presigned links. A nil store
// leaves entries untouched.
type mediaLinker struct {
	log    *logger.Logger
	store  storage.MediaStorage
	expiry time.Duration
}

func (m mediaLinker) attach(ctx context.Context, ex *domain.Exercise) {
	if m.store == nil || ex == nil {
		return
	}
	if ex.VideoKey != "" {
		if link, err := m.store.PresignGetURL(ctx, ex.VideoKey, m.expiry); err == nil {
			ex.VideoURL = link
		} else {
			m.log.Warn("video link unavailable", "exercise_id", ex.ID.Hex(), "error", err)
		}
	}
	if ex.ImageKey != "" {
		if link, err := m.store.PresignGetURL(ctx, ex.ImageKey, m.expiry); err == nil {
			ex.ImageURL = link
		} else {
			m.log.Warn("image link unavailable", "exercise_id", ex.ID.Hex(), "error", err)
		}
	}
}
