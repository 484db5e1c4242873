package pinning

import (
	"context"
	"net/http"
	"strings"
)

// Kubo pins files on a self-hosted IPFS node through its RPC API.
type Kubo struct {
	client  *http.Client
	baseURL string
	gateway string
}

func NewKubo(client *http.Client, baseURL, gateway string) *Kubo {
	return &Kubo{client: client, baseURL: strings.TrimRight(baseURL, "/"), gateway: gateway}
}

func (k *Kubo) Name() string { return ProviderKubo }

type kuboAddResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

func (k *Kubo) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}
	var out kuboAddResponse
	if err := postFile(ctx, k.client, ProviderKubo, k.baseURL+"/api/v0/add?pin=true&cid-version=1", "", data, filename, nil, &out); err != nil {
		return "", err
	}
	if out.Hash == "" {
		return "", &UploadError{Provider: ProviderKubo, Status: http.StatusOK, Message: "response has no Hash"}
	}
	return out.Hash, nil
}

func (k *Kubo) Gateway(_ context.Context, cid string) (string, error) {
	return joinGateway(k.gateway, cid), nil
}
