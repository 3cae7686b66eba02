package storage

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploadedKey  string
	contentType  string
	uploadedBody []byte
	deletedKeys  []string
}

func (f *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.uploadedKey = key
	f.contentType = contentType
	f.uploadedBody = body
	return &UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func TestPublishSnapshot_UploadsJSON(t *testing.T) {
	uploader := &fakeUploader{}
	publisher := NewSnapshotPublisher(uploader)

	payload := map[string]int{"matches": 12}
	location, err := publisher.PublishSnapshot(context.Background(), "divisions/d1/bracket-v1.json", payload)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/divisions/d1/bracket-v1.json", location)
	assert.Equal(t, "divisions/d1/bracket-v1.json", uploader.uploadedKey)
	assert.Equal(t, "application/json", uploader.contentType)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(uploader.uploadedBody, &decoded))
	assert.Equal(t, 12, decoded["matches"])
}

func TestDiscardSnapshot_DeletesKey(t *testing.T) {
	uploader := &fakeUploader{}
	publisher := NewSnapshotPublisher(uploader)

	require.NoError(t, publisher.DiscardSnapshot(context.Background(), "divisions/d1/bracket-v1.json"))
	assert.Equal(t, []string{"divisions/d1/bracket-v1.json"}, uploader.deletedKeys)
}

func TestR2Config_Validate(t *testing.T) {
	cfg := R2Config{
		AccountID:       "acct",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "bucket",
		PublicBaseURL:   "https://cdn.example.com",
	}
	assert.NoError(t, cfg.validate())

	cfg.BucketName = ""
	assert.Error(t, cfg.validate())
}

func TestR2Uploader_GetPublicURL(t *testing.T) {
	u := &r2Uploader{baseURL: "https://cdn.example.com/pub/"}

	assert.Equal(t, "https://cdn.example.com/pub/divisions/d1/bracket-v1.json",
		u.GetPublicURL("/divisions/d1/bracket-v1.json"))
	assert.Equal(t, "", u.GetPublicURL(""))
}
