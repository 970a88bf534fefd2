package custody

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Custody service paths, served by api/rest.
const (
	PathPrefix    = "/api/v1/custody"
	PathPublicKey = PathPrefix + "/public-key"
	PathSign      = PathPrefix + "/sign"
)

type PublicKeyReq struct {
	KeyID string `json:"keyId"`
}

type PublicKeyResp struct {
	KeyID     string `json:"keyId"`
	PublicKey string `json:"publicKey"` // hex DER SubjectPublicKeyInfo
}

type SignReq struct {
	KeyID  string `json:"keyId"`
	Digest string `json:"digest"` // hex, 32 bytes
}

type SignResp struct {
	KeyID     string `json:"keyId"`
	Signature string `json:"signature"` // hex DER
}

// envelope mirrors the REST response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// HTTPClient talks to a custody service exposing the REST signer API.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient uses http.DefaultClient when hc is nil. Timeouts come from
// the caller's context. A non-empty token is sent as a bearer token.
func NewHTTPClient(baseURL, token string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimSuffix(baseURL, "/"), token: token, client: hc}
}

func (c *HTTPClient) GetPublicKey(ctx context.Context, keyID string) ([]byte, error) {
	var resp PublicKeyResp
	if err := c.post(ctx, PathPublicKey, PublicKeyReq{KeyID: keyID}, &resp); err != nil {
		return nil, err
	}
	der, err := hex.DecodeString(resp.PublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid public key hex")
	}
	return der, nil
}

func (c *HTTPClient) Sign(ctx context.Context, keyID string, digest []byte) ([]byte, error) {
	var resp SignResp
	req := SignReq{KeyID: keyID, Digest: hex.EncodeToString(digest)}
	if err := c.post(ctx, PathSign, req, &resp); err != nil {
		return nil, err
	}
	der, err := hex.DecodeString(resp.Signature)
	if err != nil {
		return nil, errors.Wrap(err, "invalid signature hex")
	}
	return der, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return errors.Wrapf(err, "custody %s: status %d", path, res.StatusCode)
	}
	if !env.Success || res.StatusCode != http.StatusOK {
		return errors.Errorf("custody %s: status %d: %s", path, res.StatusCode, env.Error)
	}
	return json.Unmarshal(env.Data, out)
}
