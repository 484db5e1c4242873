package pinning

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"contentproof/internal/storage"
)

const (
	objectPrefix  = "ipfs/"
	presignExpiry = 24 * time.Hour
)

// ObjectPinner stores content in an S3-compatible bucket under a key derived from its bytes.
// Uploading the same bytes twice is a no-op that returns the same key.
type ObjectPinner struct {
	store storage.ObjectStore
}

func NewObjectPinner(store storage.ObjectStore) *ObjectPinner {
	return &ObjectPinner{store: store}
}

func (o *ObjectPinner) Name() string { return ProviderMinIO }

// ObjectKey returns the content address used for data.
func ObjectKey(data []byte) string {
	sum := sha256.Sum256(data)
	return objectPrefix + hex.EncodeToString(sum[:])
}

func (o *ObjectPinner) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}
	key := ObjectKey(data)

	if _, err := o.store.Stat(ctx, key); err == nil {
		return key, nil
	} else if !errors.Is(err, storage.ErrObjectNotFound) {
		return "", &UploadError{Provider: ProviderMinIO, Message: err.Error(), Err: err}
	}

	_, err := o.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: http.DetectContentType(data),
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return "", &UploadError{Provider: ProviderMinIO, Message: err.Error(), Err: err}
	}
	return key, nil
}

// Gateway returns a presigned download URL for the object.
func (o *ObjectPinner) Gateway(ctx context.Context, cid string) (string, error) {
	return o.store.PresignGet(ctx, cid, presignExpiry)
}
