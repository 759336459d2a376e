package ecr

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/distribution-auth/ecr-supplier/auth"
)

// TokenAPI is the subset of the ECR API used by the Supplier.
// *ecr.Client implements it.
type TokenAPI interface {
	GetAuthorizationToken(ctx context.Context, params *ecr.GetAuthorizationTokenInput, optFns ...func(*ecr.Options)) (*ecr.GetAuthorizationTokenOutput, error)
}

// fetchAuthorizationData obtains the single authorization data entry ECR is
// expected to return for a token request, scoped to registryID when non-empty.
func (s Supplier) fetchAuthorizationData(ctx context.Context, registryID string) (types.AuthorizationData, error) {
	input := &ecr.GetAuthorizationTokenInput{}
	if registryID != "" {
		input.RegistryIds = []string{registryID}
	}

	output, err := s.getTokenWithRetries(ctx, input)
	if err != nil {
		return types.AuthorizationData{}, err
	}

	if n := len(output.AuthorizationData); n != 1 {
		return types.AuthorizationData{}, fmt.Errorf(
			"%w: expected 1 entry, got %d for registry ID %q",
			auth.ErrUnexpectedAuthorizationData, n, registryID,
		)
	}

	return output.AuthorizationData[0], nil
}

// getTokenWithRetries is the retry loop around the token issuer call.
// Only server faults are retried; the backoff wait is fixed and honors
// context cancellation.
func (s Supplier) getTokenWithRetries(ctx context.Context, input *ecr.GetAuthorizationTokenInput) (*ecr.GetAuthorizationTokenOutput, error) {
	var retries int

	for {
		output, err := s.client.GetAuthorizationToken(ctx, input)
		if err == nil {
			return output, nil
		}

		var serverErr *types.ServerException
		if !errors.As(err, &serverErr) {
			return nil, s.classifyFault(err)
		}

		if retries >= s.maxRetries {
			return nil, fmt.Errorf("%w after %d attempts: %w", auth.ErrTokenFetchFailed, retries+1, err)
		}

		s.logger.Debug("server error fetching ECR token, backing off before retry",
			zap.Duration("backoff", s.backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.clock.After(s.backoff):
		}

		retries++
	}
}

// classifyFault maps non-retryable issuer errors onto the supplier error taxonomy.
func (s Supplier) classifyFault(err error) error {
	var paramErr *types.InvalidParameterException
	if errors.As(err, &paramErr) {
		return fmt.Errorf("%w: %w", auth.ErrTokenRequestRejected, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		s.logger.Debug("unhandled ECR API error",
			zap.String("code", apiErr.ErrorCode()),
			zap.Error(err),
		)
	}

	return fmt.Errorf("getting authorization token: %w", err)
}
