package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FIREBASE_PROJECT_ID", "listing-test")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "listing-test", cfg.FirebaseProjectID)
	assert.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{
		FirebaseProjectID:     "p",
		FirebaseStorageBucket: "b",
		OpenAIAPIKey:          "k",
	}
	assert.NoError(t, cfg.ValidateServer())

	assert.Error(t, (&Config{FirebaseStorageBucket: "b", OpenAIAPIKey: "k"}).ValidateServer())
	assert.Error(t, (&Config{FirebaseProjectID: "p", OpenAIAPIKey: "k"}).ValidateServer())
	assert.Error(t, (&Config{FirebaseProjectID: "p", FirebaseStorageBucket: "b"}).ValidateServer())
}

func TestValidateClient(t *testing.T) {
	cfg := &Config{
		FirebaseProjectID: "p",
		FirebaseWebAPIKey: "k",
		APIBaseURL:        "http://localhost:8080",
	}
	assert.NoError(t, cfg.ValidateClient())

	assert.Error(t, (&Config{FirebaseWebAPIKey: "k", APIBaseURL: "u"}).ValidateClient())
	assert.Error(t, (&Config{FirebaseProjectID: "p", APIBaseURL: "u"}).ValidateClient())
	assert.Error(t, (&Config{FirebaseProjectID: "p", FirebaseWebAPIKey: "k"}).ValidateClient())
}
