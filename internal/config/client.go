package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ClientConfig holds the marketplace client configuration, loaded from a
// YAML file with sensible local defaults.
type ClientConfig struct {
	// VaultURL is the base URL of the key-value/auth service.
	VaultURL string `yaml:"vault_url"`
	// ContentURL is the base URL of the primary content store.
	ContentURL string `yaml:"content_url"`
	// MirrorURL optionally names a second content store mirrored on
	// upload, best-effort.
	MirrorURL string `yaml:"mirror_url"`
	// Gateway is the HTTPS gateway used to resolve ipfs:// URIs.
	Gateway string `yaml:"gateway"`
	// SessionFile is where the bearer credential is persisted.
	SessionFile string `yaml:"session_file"`
	// WalletFile is where the local wallet seed is persisted.
	WalletFile string `yaml:"wallet_file"`
}

// LoadClient reads the client configuration from path. A missing file
// yields the defaults; a malformed file is an error.
func LoadClient(path string) (*ClientConfig, error) {
	cfg := &ClientConfig{
		VaultURL:    "http://localhost:8080",
		ContentURL:  "http://localhost:8080",
		Gateway:     "http://localhost:8080",
		SessionFile: "session.json",
		WalletFile:  "wallet.json",
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read client config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}
	return cfg, nil
}
