package ecr

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/distribution-auth/ecr-supplier/auth"
	"github.com/distribution-auth/ecr-supplier/pkg/option"
)

// Defaults applied by NewSupplier.
const (
	DefaultBackoff    = 50 * time.Millisecond
	DefaultMaxRetries = 1
)

// Supplier is an auth.CredentialSupplier that authenticates with Amazon
// Elastic Container Registry (ECR) using a provided ECR client.
//
// A Supplier holds no mutable state: it is safe for concurrent use as long as
// the underlying client is.
type Supplier struct {
	client  TokenAPI
	decoder Decoder
	clock   clockwork.Clock

	backoff    time.Duration
	maxRetries int

	logger *zap.Logger
}

// SupplierOption configures a Supplier.
type SupplierOption func(*Supplier)

// WithBackoff sets the wait between retries after server faults.
func WithBackoff(backoff time.Duration) SupplierOption {
	return func(s *Supplier) { s.backoff = backoff }
}

// WithMaxRetries sets the number of retries attempted after the initial request.
func WithMaxRetries(maxRetries int) SupplierOption {
	return func(s *Supplier) { s.maxRetries = maxRetries }
}

// WithDecoder sets the authorization token decoder.
func WithDecoder(decoder Decoder) SupplierOption {
	return func(s *Supplier) { s.decoder = decoder }
}

// WithClock sets the clock used for backoff waits.
func WithClock(clock clockwork.Clock) SupplierOption {
	return func(s *Supplier) { s.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) SupplierOption {
	return func(s *Supplier) { s.logger = logger }
}

// NewSupplier returns a new Supplier using the provided ECR client.
func NewSupplier(client TokenAPI, opts ...SupplierOption) Supplier {
	s := Supplier{
		client:     client,
		decoder:    Base64Decoder{},
		clock:      clockwork.NewRealClock(),
		backoff:    DefaultBackoff,
		maxRetries: DefaultMaxRetries,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// AuthFor implements auth.CredentialSupplier.
//
// Images hosted outside ECR resolve to an absent Option without contacting
// the token issuer. Any resolve, fetch or decode failure for an ECR image is
// returned to the caller.
func (s Supplier) AuthFor(ctx context.Context, image string) (option.Option[auth.RegistryAuth], error) {
	ref, err := name.ParseReference(image)
	if err != nil {
		return option.None[auth.RegistryAuth](), fmt.Errorf("parsing image reference %q: %w", image, err)
	}

	registry := ref.Context().RegistryStr()
	if !IsECRRegistry(registry) {
		return option.None[auth.RegistryAuth](), nil
	}

	registryID, err := AccountIDFromHost(registry)
	if err != nil {
		return option.None[auth.RegistryAuth](), err
	}

	registryAuth, err := s.authForRegistry(ctx, registryID)
	if err != nil {
		return option.None[auth.RegistryAuth](), err
	}

	return option.Some(registryAuth), nil
}

// AuthForSwarm implements auth.CredentialSupplier.
//
// It requests authorization for the default registry of the configured AWS
// account. Failures degrade to an absent Option so that a credential failure
// never blocks swarm configuration.
func (s Supplier) AuthForSwarm(ctx context.Context) option.Option[auth.RegistryAuth] {
	registryAuth, err := s.authForRegistry(ctx, "")
	if err != nil {
		s.logger.Warn("unable to get authentication data for ECR, swarm configuration will not contain registry auth for ECR",
			zap.Error(err),
		)

		return option.None[auth.RegistryAuth]()
	}

	return option.Some(registryAuth)
}

// AuthForBuild implements auth.CredentialSupplier.
//
// On success the returned configuration set contains exactly one entry keyed
// by the registry name derived from the issued endpoint. Failures degrade to
// an empty set.
func (s Supplier) AuthForBuild(ctx context.Context) auth.RegistryConfigs {
	registryAuth, err := s.authForRegistry(ctx, "")
	if err != nil {
		s.logger.Warn("unable to get authentication data for ECR, build configuration will not contain registry auth for ECR",
			zap.Error(err),
		)

		return auth.EmptyRegistryConfigs()
	}

	endpoint, err := url.Parse(registryAuth.ServerAddress)
	if err != nil {
		s.logger.Warn("unable to parse ECR server address, build configuration will not contain registry auth for ECR",
			zap.String("serverAddress", registryAuth.ServerAddress),
			zap.Error(fmt.Errorf("%w: %w", auth.ErrMalformedEndpoint, err)),
		)

		return auth.EmptyRegistryConfigs()
	}

	return auth.NewRegistryConfigs(map[string]auth.RegistryAuth{
		registryName(endpoint): registryAuth,
	})
}

// authForRegistry fetches and decodes authorization for a single registry.
// An empty registryID requests authorization for the default registry of the
// AWS account the client is configured with.
func (s Supplier) authForRegistry(ctx context.Context, registryID string) (auth.RegistryAuth, error) {
	data, err := s.fetchAuthorizationData(ctx, registryID)
	if err != nil {
		return auth.RegistryAuth{}, err
	}

	return s.parseAuthorizationData(data)
}

func (s Supplier) parseAuthorizationData(data types.AuthorizationData) (auth.RegistryAuth, error) {
	endpoint := aws.ToString(data.ProxyEndpoint)

	if data.AuthorizationToken == nil {
		return auth.RegistryAuth{}, fmt.Errorf("%w: missing authorization token for endpoint %q", auth.ErrTokenDecodeFailed, endpoint)
	}

	decoded, err := s.decoder.Decode(aws.ToString(data.AuthorizationToken))
	if err != nil {
		return auth.RegistryAuth{}, fmt.Errorf("%w: %w", auth.ErrTokenDecodeFailed, err)
	}

	cred, err := parseCredential(string(decoded))
	if err != nil {
		return auth.RegistryAuth{}, err
	}

	return auth.RegistryAuth{
		Username:      cred.username,
		Password:      cred.password,
		ServerAddress: endpoint,
	}, nil
}

// registryName derives the configuration map key for a registry endpoint:
// the host alone, or host:port when the endpoint carries a non-default (443)
// port.
//
// See https://docs.docker.com/engine/api/v1.37/#section/Authentication
func registryName(endpoint *url.URL) string {
	port := endpoint.Port()
	if port == "" || port == "443" {
		return endpoint.Hostname()
	}

	return endpoint.Hostname() + ":" + port
}
