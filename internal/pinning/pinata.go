package pinning

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Pinata pins files through the Pinata pinning API.
type Pinata struct {
	client  *http.Client
	baseURL string
	jwt     string
	gateway string
}

func NewPinata(client *http.Client, baseURL, jwt, gateway string) *Pinata {
	return &Pinata{client: client, baseURL: strings.TrimRight(baseURL, "/"), jwt: jwt, gateway: gateway}
}

func (p *Pinata) Name() string { return ProviderPinata }

type pinataResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func (p *Pinata) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}
	meta, _ := json.Marshal(map[string]string{"name": filename})

	var out pinataResponse
	err := postFile(ctx, p.client, ProviderPinata, p.baseURL+"/pinning/pinFileToIPFS", p.jwt,
		data, filename, map[string]string{"pinataMetadata": string(meta)}, &out)
	if err != nil {
		return "", err
	}
	if out.IpfsHash == "" {
		return "", &UploadError{Provider: ProviderPinata, Status: http.StatusOK, Message: "response has no IpfsHash"}
	}
	return out.IpfsHash, nil
}

func (p *Pinata) Gateway(_ context.Context, cid string) (string, error) {
	return joinGateway(p.gateway, cid), nil
}
