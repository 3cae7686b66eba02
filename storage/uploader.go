package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// SnapshotPublisher publishes generated match sets as public JSON documents.
// Publishing is best effort: the generation commit never depends on it.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, key string, payload interface{}) (string, error)

	// DiscardSnapshot removes a superseded snapshot. Best effort, like
	// publishing; the current version's document is never touched.
	DiscardSnapshot(ctx context.Context, key string) error
}

type jsonSnapshotPublisher struct {
	uploader FileUploader
}

func NewSnapshotPublisher(uploader FileUploader) SnapshotPublisher {
	return &jsonSnapshotPublisher{uploader: uploader}
}

func (p *jsonSnapshotPublisher) PublishSnapshot(ctx context.Context, key string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot %s: %w", key, err)
	}
	result, err := p.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return result.Location, nil
}

func (p *jsonSnapshotPublisher) DiscardSnapshot(ctx context.Context, key string) error {
	return p.uploader.Delete(ctx, key)
}
