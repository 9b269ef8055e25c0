package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/zeroos/internal/flagx"
	"github.com/dmitrijs2005/zeroos/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the DTO for JSON and YAML config files. Pointer fields
// distinguish "absent" from "zero"; only present keys override.
type fileConfig struct {
	Network                    *string         `json:"network" yaml:"network"`
	CanisterID                 *string         `json:"canister_id" yaml:"canister_id"`
	LocalEndpoint              *string         `json:"local_endpoint" yaml:"local_endpoint"`
	ProductionEndpoint         *string         `json:"production_endpoint" yaml:"production_endpoint"`
	LocalIdentityProvider      *string         `json:"local_identity_provider" yaml:"local_identity_provider"`
	ProductionIdentityProvider *string         `json:"production_identity_provider" yaml:"production_identity_provider"`
	KeystoreDir                *string         `json:"keystore_dir" yaml:"keystore_dir"`
	ChunkSize                  *int            `json:"chunk_size" yaml:"chunk_size"`
	CallTimeout                *timex.Duration `json:"call_timeout" yaml:"call_timeout"`
	ProviderTimeout            *timex.Duration `json:"provider_timeout" yaml:"provider_timeout"`
	OnlineCheckInterval        *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	LogLevel                   *string         `json:"log_level" yaml:"log_level"`
	S3                         *fileS3Config   `json:"s3" yaml:"s3"`
}

type fileS3Config struct {
	Endpoint     *string `json:"endpoint" yaml:"endpoint"`
	Region       *string `json:"region" yaml:"region"`
	AccessKey    *string `json:"access_key" yaml:"access_key"`
	SecretKey    *string `json:"secret_key" yaml:"secret_key"`
	UsePathStyle *bool   `json:"use_path_style" yaml:"use_path_style"`
}

// parseFile overlays cfg with the file named by -c/-config. YAML is used for
// .yaml/.yml files, JSON otherwise. No flag means no change.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *fileConfig) apply(cfg *Config) {
	setIf(&cfg.Network, fc.Network)
	setIf(&cfg.CanisterID, fc.CanisterID)
	setIf(&cfg.LocalEndpoint, fc.LocalEndpoint)
	setIf(&cfg.ProductionEndpoint, fc.ProductionEndpoint)
	setIf(&cfg.LocalIdentityProvider, fc.LocalIdentityProvider)
	setIf(&cfg.ProductionIdentityProvider, fc.ProductionIdentityProvider)
	setIf(&cfg.KeystoreDir, fc.KeystoreDir)
	setIf(&cfg.ChunkSize, fc.ChunkSize)
	setIf(&cfg.LogLevel, fc.LogLevel)

	if fc.CallTimeout != nil {
		cfg.CallTimeout = fc.CallTimeout.Duration
	}
	if fc.ProviderTimeout != nil {
		cfg.ProviderTimeout = fc.ProviderTimeout.Duration
	}
	if fc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}

	if fc.S3 != nil {
		setIf(&cfg.S3.Endpoint, fc.S3.Endpoint)
		setIf(&cfg.S3.Region, fc.S3.Region)
		setIf(&cfg.S3.AccessKey, fc.S3.AccessKey)
		setIf(&cfg.S3.SecretKey, fc.S3.SecretKey)
		setIf(&cfg.S3.UsePathStyle, fc.S3.UsePathStyle)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
