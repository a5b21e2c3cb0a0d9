package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for both the API server and the CLI client.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseStorageBucket            string `mapstructure:"FIREBASE_STORAGE_BUCKET"`
	FirebaseWebAPIKey                string `mapstructure:"FIREBASE_WEB_API_KEY"`
	OpenAIAPIKey                     string `mapstructure:"OPENAI_API_KEY"`
	APIBaseURL                       string `mapstructure:"API_BASE_URL"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`
	MaxUploadBytes                   int64  `mapstructure:"MAX_UPLOAD_BYTES"`
}

// LoadConfig loads configuration from environment variables using Viper.
// Validation of the fields each binary actually needs is done separately by
// ValidateServer / ValidateClient, since the server and the CLI require
// different subsets.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("MAX_UPLOAD_BYTES", 10<<20)

	viper.BindEnv("PORT")
	viper.BindEnv("GIN_MODE")
	viper.BindEnv("FIREBASE_PROJECT_ID")
	viper.BindEnv("GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64")
	viper.BindEnv("FIREBASE_STORAGE_BUCKET")
	viper.BindEnv("FIREBASE_WEB_API_KEY")
	viper.BindEnv("OPENAI_API_KEY")
	viper.BindEnv("API_BASE_URL")
	viper.BindEnv("CLIENT_URL")
	viper.BindEnv("MAX_UPLOAD_BYTES")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	return &cfg, nil
}

// ValidateServer checks the fields the API server cannot run without.
// Credentials may be omitted entirely, in which case the Firebase Admin SDK
// falls back to Application Default Credentials.
func (c *Config) ValidateServer() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.FirebaseStorageBucket == "" {
		return errors.New("FIREBASE_STORAGE_BUCKET is required")
	}
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	return nil
}

// ValidateClient checks the fields the CLI client cannot run without.
func (c *Config) ValidateClient() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.FirebaseWebAPIKey == "" {
		return errors.New("FIREBASE_WEB_API_KEY is required")
	}
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	return nil
}
