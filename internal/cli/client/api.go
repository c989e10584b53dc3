package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/witness-rec/witness/internal/protocol"
)

// GatewayClient speaks the typed message protocol to a running daemon.
type GatewayClient struct {
	baseURL string
	client  *http.Client
}

// NewGatewayClient creates a client for the gateway at baseURL.
func NewGatewayClient(baseURL string, timeout time.Duration) *GatewayClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &GatewayClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Call sends one request message and returns the correlated response.
func (c *GatewayClient) Call(method protocol.Method, params map[string]interface{}) (*protocol.Response, error) {
	req := protocol.NewRequest(method, params)

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/message", bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpRes, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpRes.Body.Close()

	if httpRes.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", httpRes.StatusCode)
	}

	var res protocol.Response
	if err := json.NewDecoder(httpRes.Body).Decode(&res); err != nil {
		return nil, err
	}
	if res.ID != req.ID {
		return nil, fmt.Errorf("response id %q does not match request id %q", res.ID, req.ID)
	}
	return &res, nil
}

// GetStatus checks daemon liveness.
func (c *GatewayClient) GetStatus() error {
	res, err := c.client.Get(c.baseURL + "/status")
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}
	return nil
}
