package server

import (
	"bytes"
	"context"
	"testing"

	"github.com/deppfellow/marketing-dashboard/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewPlatformClientsWithoutCredentials(t *testing.T) {
	nop := zerolog.Nop()

	clients := NewPlatformClients(context.Background(), config.PlatformsConfig{}, &nop)

	assert.Nil(t, clients.Meta)
	assert.Nil(t, clients.Analytics)
	assert.Nil(t, clients.Ads)
}

func TestNewPlatformClientsUnreadableCredentialsFile(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	clients := NewPlatformClients(context.Background(), config.PlatformsConfig{
		Meta: config.MetaConfig{
			AccessToken: "token",
			AdAccountID: "42",
			APIVersion:  "v19.0",
			BaseURL:     "https://graph.test",
		},
		GoogleAnalytics: config.GoogleAnalyticsConfig{
			PropertyID:      "987",
			CredentialsFile: "/nonexistent/key.json",
		},
	}, &logger)

	assert.NotNil(t, clients.Meta)
	assert.Nil(t, clients.Analytics)

	status := clients.Status()
	assert.True(t, status.Meta.Connected)
	assert.False(t, status.GoogleAnalytics.Connected)

	assert.Contains(t, buf.String(), "failed to initialize client, platform disabled")
	assert.Contains(t, buf.String(), "google_analytics")
}
