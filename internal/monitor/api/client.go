package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abcfe/avax-types/api/rest"
	"github.com/abcfe/avax-types/key"
)

// Client polls one signer service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(host string, port int) *Client {
	return NewClientURL(fmt.Sprintf("http://%s:%d", host, port))
}

func NewClientURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (c *Client) GetStatus() (*rest.StatusResp, error) {
	var status rest.StatusResp
	if err := c.get("/api/v1/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetKeys returns the key records persisted by the service.
func (c *Client) GetKeys() ([]key.Info, error) {
	var infos []key.Info
	if err := c.get("/api/v1/keys", &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

func (c *Client) get(path string, out interface{}) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var result envelope
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("api error: %s", result.Error)
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
