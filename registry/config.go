package registry

import (
	"github.com/BurntSushi/toml"

	smithy "github.com/modulert/smithy-go"
)

// Config is the optional TOML-file form of the settings spec.md's
// configuration-options table lists, offered as an alternative to setting
// the cbor-provider environment variable directly.
//
// MaxInMemoryPayload and PayloadMediaType thread through to the httpbinding
// package: MaxInMemoryPayload as the maxInMemoryPayload argument to
// httpbinding.NewRequestDeserializer/NewResponseDeserializer (via
// MaxPayloadBytes), and PayloadMediaType as the PayloadMediaType field on
// httpbinding.RequestSerializer/ResponseSerializer.
type Config struct {
	CBORProvider       string `toml:"cbor_provider"`
	MaxInMemoryPayload int64  `toml:"max_in_memory_payload"`
	PayloadMediaType   string `toml:"payload_media_type"`
}

// MaxPayloadBytes returns cfg.MaxInMemoryPayload, falling back to def
// (typically httpbinding.DefaultMaxInMemoryPayload) when the config left it
// unset or set to a non-positive value.
func (cfg Config) MaxPayloadBytes(def int64) int64 {
	if cfg.MaxInMemoryPayload <= 0 {
		return def
	}
	return cfg.MaxInMemoryPayload
}

// LoadConfigFile parses a TOML file at path into a Config.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}

// ApplyCBORProvider selects the provider named by cfg.CBORProvider against
// r, falling back to def when the config doesn't name one or names a
// provider that isn't registered. This exists alongside the environment
// override (Select honors EnvOverride first) for deployments that prefer a
// checked-in config file over ambient process environment.
func (cfg Config) ApplyCBORProvider(r *CodecRegistry, def smithy.Codec) smithy.Codec {
	if cfg.CBORProvider == "" {
		return def
	}
	if p, ok := r.SelectNamed(cfg.CBORProvider); ok {
		return p
	}
	return def
}
