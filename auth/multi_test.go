package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distribution-auth/ecr-supplier/pkg/option"
)

func TestMultiCredentialSupplier_AuthFor(t *testing.T) {
	t.Run("FirstMatchWins", func(t *testing.T) {
		supplier := NewMultiCredentialSupplier(
			supplierStub{auth: option.None[RegistryAuth]()},
			supplierStub{auth: option.Some(RegistryAuth{Username: "first"})},
			supplierStub{auth: option.Some(RegistryAuth{Username: "second"})},
		)

		registryAuth, err := supplier.AuthFor(context.Background(), "registry.example.com/team/project:latest")
		require.NoError(t, err)

		require.True(t, registryAuth.HasValue())
		assert.Equal(t, "first", registryAuth.Value().Username)
	})

	t.Run("NoMatch", func(t *testing.T) {
		supplier := NewMultiCredentialSupplier(
			supplierStub{auth: option.None[RegistryAuth]()},
		)

		registryAuth, err := supplier.AuthFor(context.Background(), "registry.example.com/team/project:latest")
		require.NoError(t, err)

		assert.False(t, registryAuth.HasValue())
	})

	t.Run("ErrorStopsChain", func(t *testing.T) {
		expectedErr := errors.New("supplier failure")

		supplier := NewMultiCredentialSupplier(
			supplierStub{auth: option.None[RegistryAuth](), err: expectedErr},
			supplierStub{auth: option.Some(RegistryAuth{Username: "unreachable"})},
		)

		_, err := supplier.AuthFor(context.Background(), "registry.example.com/team/project:latest")
		require.Error(t, err)

		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestMultiCredentialSupplier_AuthForSwarm(t *testing.T) {
	supplier := NewMultiCredentialSupplier(
		supplierStub{auth: option.None[RegistryAuth]()},
		supplierStub{auth: option.Some(RegistryAuth{Username: "swarm"})},
	)

	registryAuth := supplier.AuthForSwarm(context.Background())

	require.True(t, registryAuth.HasValue())
	assert.Equal(t, "swarm", registryAuth.Value().Username)
}

func TestMultiCredentialSupplier_AuthForBuild(t *testing.T) {
	supplier := NewMultiCredentialSupplier(
		supplierStub{configs: NewRegistryConfigs(map[string]RegistryAuth{
			"one.example.com":    {Username: "one"},
			"shared.example.com": {Username: "first"},
		})},
		supplierStub{configs: NewRegistryConfigs(map[string]RegistryAuth{
			"two.example.com":    {Username: "two"},
			"shared.example.com": {Username: "second"},
		})},
	)

	configs := supplier.AuthForBuild(context.Background())

	assert.Equal(t, map[string]RegistryAuth{
		"one.example.com":    {Username: "one"},
		"two.example.com":    {Username: "two"},
		"shared.example.com": {Username: "first"},
	}, configs.Configs())
}
