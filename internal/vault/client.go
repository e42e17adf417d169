package vault

import (
	"context"
	"errors"
	"fmt"
	"os"

	vault "github.com/hashicorp/vault/api"
	"github.com/mitchellh/mapstructure"
)

// ErrClientInit indicates failure to initialize the Vault API client.
var ErrClientInit = errors.New("vault client initialization failed")

// ErrSecretNotFound indicates the KV path exists but carries no usable
// API key.
var ErrSecretNotFound = errors.New("vault secret not found")

type Option func(*config)

type config struct {
	address string
	token   string
}

// Client wraps the Vault API client used to read the CloudHealth API
// key from a KV secret.
type Client struct {
	api    *vault.Client
	config *config
}

// WithAddress sets the Vault server address.
func WithAddress(address string) Option {
	return func(c *config) {
		c.address = address
	}
}

// WithToken sets the token used for authentication.
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// NewClient creates and initializes a Vault Client using provided
// options. Address and token default to VAULT_ADDR and VAULT_TOKEN.
func NewClient(opts ...Option) (*Client, error) {
	cfg := &config{
		address: os.Getenv("VAULT_ADDR"),
		token:   os.Getenv("VAULT_TOKEN"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiCfg := vault.DefaultConfig()
	if cfg.address != "" {
		apiCfg.Address = cfg.address
	}

	api, err := vault.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientInit, err)
	}
	if cfg.token != "" {
		api.SetToken(cfg.token)
	}

	return &Client{api: api, config: cfg}, nil
}

// apiKeySecret is the expected shape of the KV secret payload.
type apiKeySecret struct {
	APIKey string `mapstructure:"api_key"`
}

// ReadAPIKey reads the CloudHealth API key stored at the given KV path.
// Both KV v1 and v2 layouts are accepted (v2 nests the fields under a
// "data" map).
func (c *Client) ReadAPIKey(ctx context.Context, path string) (string, error) {
	secret, err := c.api.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", fmt.Errorf("vault read %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("%w: no data at path %s", ErrSecretNotFound, path)
	}

	data := secret.Data
	if nested, ok := data["data"].(map[string]any); ok {
		data = nested
	}

	var parsed apiKeySecret
	if err := mapstructure.Decode(data, &parsed); err != nil {
		return "", fmt.Errorf("decode secret at %s: %w", path, err)
	}
	if parsed.APIKey == "" {
		return "", fmt.Errorf("%w: no api_key field at path %s", ErrSecretNotFound, path)
	}
	return parsed.APIKey, nil
}
