package ecr

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/distribution-auth/ecr-supplier/auth"
)

// Decoder decodes the transport encoding of an authorization token.
//
// It is a separate capability so tests can substitute a deterministic
// implementation.
type Decoder interface {
	Decode(encoded string) ([]byte, error)
}

// Base64Decoder decodes standard base64, the encoding ECR issues tokens in.
type Base64Decoder struct{}

func (Base64Decoder) Decode(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}

// credential is a decoded username:password pair.
type credential struct {
	username string
	password string
}

// parseCredential splits a decoded authorization token into a credential.
// The username is everything before the first ':'; the password is everything
// after it, including any further ':' characters.
func parseCredential(decoded string) (credential, error) {
	i := strings.IndexByte(decoded, ':')
	if i == -1 {
		return credential{}, fmt.Errorf("%w: no separator in authorization token", auth.ErrMalformedCredential)
	}

	cred := credential{
		username: decoded[:i],
		password: decoded[i+1:],
	}

	if cred.username == "" || cred.password == "" {
		return credential{}, fmt.Errorf("%w: empty username or password in authorization token", auth.ErrMalformedCredential)
	}

	return cred, nil
}
