package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Proton-105/zametka-bot/pkg/config"
)

func configWithWindow(window string) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled: true,
		PerUser: config.RateLimitRule{Limit: 10, Window: window},
	}
}

func TestRules_IsWhitelisted(t *testing.T) {
	rules := NewRules(config.RateLimitConfig{
		Whitelist: []int64{7, 13},
	})

	assert.True(t, rules.IsWhitelisted(7))
	assert.True(t, rules.IsWhitelisted(13))
	assert.False(t, rules.IsWhitelisted(42))
}
