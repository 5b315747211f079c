package banksdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doForm(ctx, http.MethodGet, "/livez", nil, "")
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeEnvelope(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}

	return &health, nil
}

// GetReadiness checks if the service is ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doForm(ctx, http.MethodGet, "/readyz", nil, "")
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeEnvelope(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}

	return &health, nil
}
