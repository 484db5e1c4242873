package pinning

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"contentproof/internal/config"
	"contentproof/internal/storage"
	storeMocks "contentproof/internal/storage/mocks"
)

func TestPinata_Upload(t *testing.T) {
	var gotAuth, gotFile, gotMeta, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		b, _ := io.ReadAll(f)
		gotFile = hdr.Filename + ":" + string(b)
		gotMeta = r.FormValue("pinataMetadata")
		_ = json.NewEncoder(w).Encode(map[string]any{"IpfsHash": "QmHash", "PinSize": 5})
	}))
	defer srv.Close()

	p := NewPinata(srv.Client(), srv.URL+"/", "jwt-token", "https://gw.example/ipfs/")
	cid, err := p.Upload(context.Background(), []byte("hello"), "note.txt")

	require.NoError(t, err)
	assert.Equal(t, "QmHash", cid)
	assert.Equal(t, "/pinning/pinFileToIPFS", gotPath)
	assert.Equal(t, "Bearer jwt-token", gotAuth)
	assert.Equal(t, "note.txt:hello", gotFile)
	assert.JSONEq(t, `{"name":"note.txt"}`, gotMeta)

	url, err := p.Gateway(context.Background(), cid)
	require.NoError(t, err)
	assert.Equal(t, "https://gw.example/ipfs/QmHash", url)
	assert.Equal(t, ProviderPinata, p.Name())
}

func TestPinata_UploadErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"invalid jwt"}`, 401, `{"error":"invalid jwt"}`},
		{"server error without body", http.StatusBadGateway, "", 502, "Bad Gateway"},
		{"missing hash", http.StatusOK, `{}`, 200, "response has no IpfsHash"},
		{"malformed body", http.StatusOK, `not json`, 200, "malformed response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewPinata(srv.Client(), srv.URL, "jwt", "")
			_, err := p.Upload(context.Background(), []byte("x"), "x.bin")

			var upErr *UploadError
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, ProviderPinata, upErr.Provider)
			assert.Equal(t, tt.wantStatus, upErr.Status)
			assert.Equal(t, tt.wantMsg, upErr.Message)
		})
	}
}

func TestPinata_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	p := NewPinata(&http.Client{Timeout: time.Second}, srv.URL, "jwt", "")
	_, err := p.Upload(context.Background(), []byte("x"), "x.bin")

	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Zero(t, upErr.Status)
	assert.Contains(t, err.Error(), "pinning: pinata upload failed")
}

func TestKubo_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/add", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("pin"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		_, _ = w.Write([]byte(`{"Name":"a.txt","Hash":"bafyHash","Size":"13"}`))
	}))
	defer srv.Close()

	k := NewKubo(srv.Client(), srv.URL, "http://127.0.0.1:8080/ipfs")
	cid, err := k.Upload(context.Background(), []byte("hello"), "a.txt")

	require.NoError(t, err)
	assert.Equal(t, "bafyHash", cid)
	url, _ := k.Gateway(context.Background(), cid)
	assert.Equal(t, "http://127.0.0.1:8080/ipfs/bafyHash", url)
}

func TestUpload_EmptyContent(t *testing.T) {
	ctx := context.Background()
	for _, p := range []Pinner{
		NewPinata(http.DefaultClient, "http://unused", "jwt", ""),
		NewKubo(http.DefaultClient, "http://unused", ""),
		NewObjectPinner(new(storeMocks.MockObjectStore)),
	} {
		_, err := p.Upload(ctx, nil, "empty")
		assert.ErrorIs(t, err, ErrEmptyContent, p.Name())
	}
}

func TestObjectPinner_Upload(t *testing.T) {
	ctx := context.Background()
	data := []byte("hello")
	key := ObjectKey(data)
	assert.Equal(t, "ipfs/2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", key)

	t.Run("new object", func(t *testing.T) {
		store := new(storeMocks.MockObjectStore)
		store.On("Stat", ctx, key).Return(storage.ObjectInfo{}, storage.ErrObjectNotFound)
		store.On("Put", ctx, key, mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
			return o.Size == 5 && o.Metadata["original-filename"] == "a.txt"
		})).Return(storage.ObjectInfo{Key: key, Size: 5}, nil)

		cid, err := NewObjectPinner(store).Upload(ctx, data, "a.txt")

		require.NoError(t, err)
		assert.Equal(t, key, cid)
		store.AssertExpectations(t)
	})

	t.Run("existing object is not rewritten", func(t *testing.T) {
		store := new(storeMocks.MockObjectStore)
		store.On("Stat", ctx, key).Return(storage.ObjectInfo{Key: key}, nil)

		cid, err := NewObjectPinner(store).Upload(ctx, data, "a.txt")

		require.NoError(t, err)
		assert.Equal(t, key, cid)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("put failure", func(t *testing.T) {
		store := new(storeMocks.MockObjectStore)
		store.On("Stat", ctx, key).Return(storage.ObjectInfo{}, storage.ErrObjectNotFound)
		store.On("Put", ctx, key, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("access denied"))

		_, err := NewObjectPinner(store).Upload(ctx, data, "a.txt")

		var upErr *UploadError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, ProviderMinIO, upErr.Provider)
		assert.Equal(t, "access denied", upErr.Message)
	})

	t.Run("gateway presigns", func(t *testing.T) {
		store := new(storeMocks.MockObjectStore)
		store.On("PresignGet", ctx, key, presignExpiry).Return("https://minio/ipfs/signed", nil)

		url, err := NewObjectPinner(store).Gateway(ctx, key)

		require.NoError(t, err)
		assert.Equal(t, "https://minio/ipfs/signed", url)
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	p, err := New(ctx, config.PinningConfig{Provider: ProviderNone}, config.MinIOConfig{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = New(ctx, config.PinningConfig{Provider: ProviderPinata, PinataURL: "https://api.pinata.cloud", PinataJWT: "j"}, config.MinIOConfig{})
	require.NoError(t, err)
	assert.Equal(t, ProviderPinata, p.Name())

	p, err = New(ctx, config.PinningConfig{Provider: ProviderKubo, KuboURL: "http://127.0.0.1:5001"}, config.MinIOConfig{})
	require.NoError(t, err)
	assert.Equal(t, ProviderKubo, p.Name())

	_, err = New(ctx, config.PinningConfig{Provider: ProviderMinIO}, config.MinIOConfig{})
	assert.EqualError(t, err, "minio endpoint is required")

	_, err = New(ctx, config.PinningConfig{Provider: "arweave"}, config.MinIOConfig{})
	assert.EqualError(t, err, `pinning: unsupported provider "arweave"`)
}
