package bank_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lockdownctf/bankapi/pkg/banksdk"
)

// TestLivezEndpoint verifies the liveness check endpoint.
func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupBankContainer(t, nil)
	defer cleanup()

	client := banksdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Version)

	t.Logf("Livez endpoint is healthy")
}

// TestReadyzEndpoint verifies the readiness check reaches the database.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupBankContainer(t, nil)
	defer cleanup()

	client := banksdk.NewSDKClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)

	t.Logf("Readyz endpoint is healthy")
}
