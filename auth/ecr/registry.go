package ecr

import (
	"fmt"
	"strings"

	"github.com/distribution-auth/ecr-supplier/auth"
)

// ecrDomain is the domain suffix shared by all ECR registry hosts.
const ecrDomain = ".amazonaws.com"

// IsECRRegistry checks whether a registry host belongs to Amazon ECR.
func IsECRRegistry(host string) bool {
	return strings.HasSuffix(host, ecrDomain)
}

// AccountIDFromHost extracts the AWS account ID from an ECR registry host.
// ECR registry hosts have the form <accountID>.dkr.ecr.<region>.amazonaws.com,
// so the account ID is everything before the first dot.
//
// See https://docs.aws.amazon.com/AmazonECR/latest/userguide/Registries.html
func AccountIDFromHost(host string) (string, error) {
	i := strings.IndexByte(host, '.')
	if i == -1 {
		return "", fmt.Errorf("%w: no account ID in %q", auth.ErrMalformedRegistryHost, host)
	}

	return host[:i], nil
}
