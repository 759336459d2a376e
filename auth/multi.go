package auth

import (
	"context"

	"github.com/distribution-auth/ecr-supplier/pkg/option"
	"github.com/distribution-auth/ecr-supplier/pkg/slices"
)

// MultiCredentialSupplier chains several suppliers, asking each in order.
type MultiCredentialSupplier struct {
	suppliers []CredentialSupplier
}

// NewMultiCredentialSupplier returns a new MultiCredentialSupplier.
func NewMultiCredentialSupplier(suppliers ...CredentialSupplier) MultiCredentialSupplier {
	return MultiCredentialSupplier{
		suppliers: suppliers,
	}
}

// AuthFor implements CredentialSupplier. The first supplier returning a
// present Option wins; an error from any supplier stops the chain.
func (m MultiCredentialSupplier) AuthFor(ctx context.Context, image string) (option.Option[RegistryAuth], error) {
	for _, supplier := range m.suppliers {
		registryAuth, err := supplier.AuthFor(ctx, image)
		if err != nil {
			return option.None[RegistryAuth](), err
		}

		if registryAuth.HasValue() {
			return registryAuth, nil
		}
	}

	return option.None[RegistryAuth](), nil
}

// AuthForSwarm implements CredentialSupplier. The first supplier returning a
// present Option wins.
func (m MultiCredentialSupplier) AuthForSwarm(ctx context.Context) option.Option[RegistryAuth] {
	for _, supplier := range m.suppliers {
		registryAuth := supplier.AuthForSwarm(ctx)
		if registryAuth.HasValue() {
			return registryAuth
		}
	}

	return option.None[RegistryAuth]()
}

// AuthForBuild implements CredentialSupplier by merging the configuration
// sets of all suppliers. When two suppliers provide an entry for the same
// registry, the earlier supplier wins.
func (m MultiCredentialSupplier) AuthForBuild(ctx context.Context) RegistryConfigs {
	merged := make(map[string]RegistryAuth)

	configsList := slices.Map(m.suppliers, func(s CredentialSupplier) RegistryConfigs {
		return s.AuthForBuild(ctx)
	})

	for _, configs := range configsList {
		for registry, registryAuth := range configs.Configs() {
			if _, ok := merged[registry]; ok {
				continue
			}

			merged[registry] = registryAuth
		}
	}

	return NewRegistryConfigs(merged)
}
