package auth

import (
	"context"

	"github.com/distribution-auth/ecr-supplier/pkg/option"
)

// CredentialSupplier supplies registry credentials for the different docker
// operations that accept authentication information.
//
// Each operation carries its own failure policy: AuthFor propagates failures
// to the caller, while AuthForSwarm and AuthForBuild degrade to an absent
// result so that a credential failure never blocks swarm or build
// configuration.
type CredentialSupplier interface {
	// AuthFor returns authentication for interacting with the given image reference.
	// A supplier that does not apply to the image's registry returns an absent
	// Option (and no error), allowing the caller to fall through to other
	// credential sources.
	AuthFor(ctx context.Context, image string) (option.Option[RegistryAuth], error)

	// AuthForSwarm returns authentication to be included in a swarm service
	// configuration. Failures are logged and reported as an absent Option.
	AuthForSwarm(ctx context.Context) option.Option[RegistryAuth]

	// AuthForBuild returns the per-registry authentication map for image builds.
	// Failures are logged and reported as an empty RegistryConfigs.
	AuthForBuild(ctx context.Context) RegistryConfigs
}
