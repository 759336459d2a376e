package auth

import (
	"encoding/json"

	"golang.org/x/exp/maps"
)

// RegistryAuth is the authentication information for a single registry.
// Field names follow the [docker config.json auth format].
//
// A RegistryAuth is constructed once per successful credential fetch and never
// mutated afterwards, so it is safe to share between goroutines.
//
// [docker config.json auth format]: https://docs.docker.com/engine/api/v1.37/#section/Authentication
type RegistryAuth struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ServerAddress string `json:"serveraddress"`
}

// RegistryConfigs maps registry names to their authentication information,
// in the shape the docker build API expects for multi-registry builds.
//
// The zero value is a valid, empty configuration set:
// "no credentials available" is a normal outcome, not an error.
type RegistryConfigs struct {
	configs map[string]RegistryAuth
}

// NewRegistryConfigs returns a RegistryConfigs holding a copy of configs.
func NewRegistryConfigs(configs map[string]RegistryAuth) RegistryConfigs {
	return RegistryConfigs{
		configs: maps.Clone(configs),
	}
}

// EmptyRegistryConfigs returns a RegistryConfigs with no entries.
func EmptyRegistryConfigs() RegistryConfigs {
	return RegistryConfigs{}
}

// Configs returns a copy of the registry name to RegistryAuth mapping.
func (c RegistryConfigs) Configs() map[string]RegistryAuth {
	if c.configs == nil {
		return map[string]RegistryAuth{}
	}

	return maps.Clone(c.configs)
}

// Empty reports whether the configuration set has no entries.
func (c RegistryConfigs) Empty() bool {
	return len(c.configs) == 0
}

func (c RegistryConfigs) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Configs())
}
