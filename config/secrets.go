package config

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// SecretStore resolves secrets referenced by configuration, keeping raw
// credentials out of config files.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	GetWithDefault(ctx context.Context, key, fallback string) string
}

// EnvironmentSecretStore reads secrets from process environment variables.
type EnvironmentSecretStore struct{}

func NewEnvironmentSecretStore() *EnvironmentSecretStore { return &EnvironmentSecretStore{} }

func (s *EnvironmentSecretStore) Get(_ context.Context, key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("secret %s not found in environment", key)
	}
	return value, nil
}

func (s *EnvironmentSecretStore) GetWithDefault(ctx context.Context, key, fallback string) string {
	value, err := s.Get(ctx, key)
	if err != nil {
		return fallback
	}
	return value
}

// LoadSecretsFromEnv resolves credentials through the environment secret
// store, overriding whatever the config file carried.
func (c *Config) LoadSecretsFromEnv(ctx context.Context) error {
	store := NewEnvironmentSecretStore()
	c.Storage.Redis.Password = store.GetWithDefault(ctx, "FINLEARN_REDIS_PASSWORD", c.Storage.Redis.Password)
	c.Storage.SQL.DSN = store.GetWithDefault(ctx, "FINLEARN_SQL_DSN", c.Storage.SQL.DSN)
	if keys := store.GetWithDefault(ctx, "FINLEARN_API_KEYS", ""); keys != "" {
		c.Security.APIKeys = strings.Split(keys, ",")
	}
	return nil
}
