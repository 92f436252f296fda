package usecases

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"calmora/internal/infrastructure/storage"
	"calmora/internal/shared/id"
	"calmora/internal/shared/logger"
)

// Media kinds determine the storage key prefix and the accepted content types.
const (
	MediaKindAudio = "audio"
	MediaKindImage = "image"
)

var allowedContentTypes = map[string]map[string]string{
	MediaKindAudio: {
		"audio/mpeg": ".mp3",
		"audio/mp4":  ".m4a",
		"audio/aac":  ".aac",
		"audio/ogg":  ".ogg",
	},
	MediaKindImage: {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	},
}

type UploadMediaCommand struct {
	Kind        string
	ContentType string
	Body        io.Reader
}

type UploadMediaResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadMediaUseCase stores admin-uploaded media and hands back the opaque
// key that track and category records reference, plus a signed preview URL.
// Keys are generated here so clients never pick storage paths.
type UploadMediaUseCase struct {
	store  storage.Store
	signer MediaSigner
	logger logger.Interface
}

func NewUploadMediaUseCase(store storage.Store, signer MediaSigner, logger logger.Interface) *UploadMediaUseCase {
	return &UploadMediaUseCase{store: store, signer: signer, logger: logger}
}

func (uc *UploadMediaUseCase) Execute(ctx context.Context, cmd UploadMediaCommand) (*UploadMediaResult, error) {
	kind := strings.ToLower(cmd.Kind)
	types, ok := allowedContentTypes[kind]
	if !ok {
		return nil, fmt.Errorf("unknown media kind: %s", cmd.Kind)
	}
	ext, ok := types[cmd.ContentType]
	if !ok {
		return nil, fmt.Errorf("unsupported content type %s for %s upload", cmd.ContentType, kind)
	}

	name, err := id.GenerateWithPrefix("med", id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate media key: %w", err)
	}
	key := path.Join(kind, name+ext)

	if err := uc.store.Put(ctx, key, cmd.ContentType, cmd.Body); err != nil {
		uc.logger.Errorw("failed to store media", "error", err, "key", key)
		return nil, fmt.Errorf("failed to store media: %w", err)
	}

	uc.logger.Infow("media uploaded", "key", key, "content_type", cmd.ContentType)
	return &UploadMediaResult{
		Key: key,
		URL: uc.signer.Sign(key, time.Now().UTC()),
	}, nil
}

// Delete removes an uploaded object. Missing keys are treated as success so
// retrying a cleanup is harmless.
func (uc *UploadMediaUseCase) Delete(ctx context.Context, key string) error {
	exists, err := uc.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check media: %w", err)
	}
	if !exists {
		return nil
	}
	if err := uc.store.Delete(ctx, key); err != nil {
		uc.logger.Errorw("failed to delete media", "error", err, "key", key)
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return nil
}
