package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-natours/internal/config"
	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/service"
)

func testConfig(address string) config.StructuredConfig {
	return config.StructuredConfig{Server: config.Server{HTTPAddress: address}}
}

func TestNewHandlers(t *testing.T) {
	tests := []struct {
		name     string
		services *service.Services
		address  string
		wantErr  error
	}{
		{name: "http address", services: &service.Services{}, address: ":3000"},
		{name: "no address", services: &service.Services{}, wantErr: errNoHandlersAreCreated},
		{name: "no services", address: ":3000", wantErr: errNoServices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandlers(tt.services, testConfig(tt.address), logger.Nop())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, h.HTTP)
			assert.NotNil(t, h.HTTP.Limiter())
		})
	}
}

func TestNewHandlers_IndependentInstances(t *testing.T) {
	cfg := testConfig(":3000")

	h1, err1 := NewHandlers(&service.Services{}, cfg, logger.Nop())
	h2, err2 := NewHandlers(&service.Services{}, cfg, logger.Nop())

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotSame(t, h1.HTTP, h2.HTTP)
	assert.NotSame(t, h1.HTTP.Limiter(), h2.HTTP.Limiter())
}
