package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverridesOnlySetVariables(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("TASKKEEPER_REFRESH_TOKEN_TTL", "168h")
	t.Setenv("TASKKEEPER_LOGIN_RATE_BURST", "3")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://otel:4318")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 168*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 3, c.LoginRateBurst)
	assert.Equal(t, "http://otel:4318", c.TracingEndpoint)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	t.Setenv("TASKKEEPER_ACCESS_TOKEN_TTL", "half an hour")

	var c Config
	c.LoadDefaults()
	require.Panics(t, func() { parseEnv(&c) })
}
