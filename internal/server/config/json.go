package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/credvault/internal/flagx"
	"github.com/dmitrijs2005/credvault/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration,
// which accepts both "1m" strings and integer nanoseconds. Absent or empty
// fields leave the current value untouched.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDriver              string         `json:"database_driver"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	KeyStoreBackend             string         `json:"keystore_backend"`
	KeyEncryptionKey            string         `json:"key_encryption_key"`
	KeyringServiceName          string         `json:"keyring_service_name"`
	KeyringBackend              string         `json:"keyring_backend"`
	KeyringFileDir              string         `json:"keyring_file_dir"`
	KeyringFilePassword         string         `json:"keyring_file_password"`
	DefaultCipher               string         `json:"default_cipher"`
	KDF                         string         `json:"kdf"`
	LogLevel                    string         `json:"log_level"`
	RateLimitRPS                *float64       `json:"rate_limit_rps"`
	RateLimitBurst              *int           `json:"rate_limit_burst"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays values from the file named by -c/-config, if any.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", jsonConfigFile, err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.KeyStoreBackend, c.KeyStoreBackend)
	setString(&config.KeyEncryptionKey, c.KeyEncryptionKey)
	setString(&config.KeyringServiceName, c.KeyringServiceName)
	setString(&config.KeyringBackend, c.KeyringBackend)
	setString(&config.KeyringFileDir, c.KeyringFileDir)
	setString(&config.KeyringFilePassword, c.KeyringFilePassword)
	setString(&config.DefaultCipher, c.DefaultCipher)
	setString(&config.KDF, c.KDF)
	setString(&config.LogLevel, c.LogLevel)
	if c.RateLimitRPS != nil {
		config.RateLimitRPS = *c.RateLimitRPS
	}
	if c.RateLimitBurst != nil {
		config.RateLimitBurst = *c.RateLimitBurst
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	return nil
}
