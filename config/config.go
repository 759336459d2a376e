package config

import "fmt"

// Config collects all configuration options.
type Config struct {
	Supplier Supplier `yaml:"supplier"`
	Server   Server   `yaml:"server"`
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Supplier.Config == nil {
		return fmt.Errorf("supplier is required")
	}

	if err := c.Supplier.Config.Validate(); err != nil {
		return err
	}

	return c.Server.Validate()
}

// Server is the configuration for the HTTP credential service.
type Server struct {
	Addr        string `yaml:"addr"`
	TLSCertFile string `yaml:"tlsCertFile"`
	TLSKeyFile  string `yaml:"tlsKeyFile"`
}

// Validate validates the configuration.
func (s Server) Validate() error {
	if (s.TLSCertFile == "") != (s.TLSKeyFile == "") {
		return fmt.Errorf("server: tlsCertFile and tlsKeyFile must be provided together")
	}

	return nil
}

// rawConfig is a general struct to be used by other config structs to unmarshal yaml config first.
type rawConfig struct {
	Type   string                 `yaml:"type"`
	Config map[string]interface{} `yaml:"config"`
}
