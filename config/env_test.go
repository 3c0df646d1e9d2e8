package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 3306, cfg.DBPort)
	assert.Equal(t, "posters.yaml", cfg.PostersFile)
	assert.Equal(t, 30*time.Minute, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.PostDelay)
}
