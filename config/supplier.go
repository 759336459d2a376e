package config

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsecr "github.com/aws/aws-sdk-go-v2/service/ecr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/distribution-auth/ecr-supplier/auth"
	"github.com/distribution-auth/ecr-supplier/auth/ecr"
)

// Supplier is the configuration for an auth.CredentialSupplier.
type Supplier struct {
	Type   string `yaml:"type"`
	Config SupplierFactory
}

func (c *Supplier) UnmarshalYAML(value *yaml.Node) error {
	var rawConfig rawConfig

	err := value.Decode(&rawConfig)
	if err != nil {
		return err
	}

	var config SupplierFactory

	switch rawConfig.Type {
	case "ecr":
		var factory ecrSupplier

		err := decode(rawConfig.Config, &factory)
		if err != nil {
			return err
		}

		config = factory
	default:
		return fmt.Errorf("unknown supplier type: %s", rawConfig.Type)
	}

	c.Type = rawConfig.Type
	c.Config = config

	return nil
}

// SupplierFactory creates a new auth.CredentialSupplier.
type SupplierFactory interface {
	CreateSupplier(ctx context.Context, logger *zap.Logger) (auth.CredentialSupplier, error)
	Validate() error
}

type ecrSupplier struct {
	Region     string        `mapstructure:"region"`
	Profile    string        `mapstructure:"profile"`
	Backoff    time.Duration `mapstructure:"backoff"`
	MaxRetries *int          `mapstructure:"maxRetries"`
}

func (c ecrSupplier) CreateSupplier(ctx context.Context, logger *zap.Logger) (auth.CredentialSupplier, error) {
	var optFns []func(*awsconfig.LoadOptions) error

	if c.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(c.Region))
	}

	if c.Profile != "" {
		optFns = append(optFns, awsconfig.WithSharedConfigProfile(c.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, err
	}

	opts := []ecr.SupplierOption{
		ecr.WithLogger(logger),
	}

	if c.Backoff > 0 {
		opts = append(opts, ecr.WithBackoff(c.Backoff))
	}

	if c.MaxRetries != nil {
		opts = append(opts, ecr.WithMaxRetries(*c.MaxRetries))
	}

	return ecr.NewSupplier(awsecr.NewFromConfig(cfg), opts...), nil
}

func (c ecrSupplier) Validate() error {
	if c.Backoff < 0 {
		return fmt.Errorf("supplier: ecr: backoff cannot be negative")
	}

	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		return fmt.Errorf("supplier: ecr: maxRetries cannot be negative")
	}

	return nil
}
