package ecr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distribution-auth/ecr-supplier/auth"
)

func TestIsECRRegistry(t *testing.T) {
	testCases := []struct {
		host     string
		expected bool
	}{
		{"12345.dkr.ecr.us-east-1.amazonaws.com", true},
		{"67890.dkr.ecr.us-west-2.amazonaws.com", true},
		{"index.docker.io", false},
		{"quay.io", false},
		{"amazonaws.com", false},
		{"localhost:5000", false},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.host, func(t *testing.T) {
			assert.Equal(t, testCase.expected, IsECRRegistry(testCase.host))
		})
	}
}

func TestAccountIDFromHost(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		accountID, err := AccountIDFromHost("12345.dkr.example.amazonaws.com")
		require.NoError(t, err)

		assert.Equal(t, "12345", accountID)
	})

	t.Run("NoSubdomain", func(t *testing.T) {
		_, err := AccountIDFromHost("localhost")
		require.Error(t, err)

		assert.ErrorIs(t, err, auth.ErrMalformedRegistryHost)
	})
}
