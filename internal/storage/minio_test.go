package storage

import (
	"testing"

	"github.com/andresuchdata/stockcash/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinioClientValidatesConfig(t *testing.T) {
	valid := config.StorageConfig{Endpoint: "localhost:9000", AccessKey: "key", SecretKey: "secret", Bucket: "reports"}

	tests := []struct {
		name   string
		mutate func(*config.StorageConfig)
		errMsg string
	}{
		{"missing endpoint", func(c *config.StorageConfig) { c.Endpoint = "" }, "endpoint"},
		{"missing credentials", func(c *config.StorageConfig) { c.SecretKey = "" }, "credentials"},
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := NewMinioClient(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewMinioClientNormalizesEndpoint(t *testing.T) {
	client, err := NewMinioClient(config.StorageConfig{
		Endpoint:  "https://s3.example.com",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "reports",
	})
	require.NoError(t, err)
	assert.Equal(t, "s3.example.com", client.client.EndpointURL().Host)
	assert.Equal(t, "https", client.client.EndpointURL().Scheme)
	assert.Equal(t, defaultRegion, client.region)
}
