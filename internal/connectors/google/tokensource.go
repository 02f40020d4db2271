package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
)

// EnvCredentials names the environment variable holding the key file path.
const EnvCredentials = "SVC_ACCT_CREDENTIALS"

// Ensure CredentialResolver implements the interface.
var _ driven.AuthResolver = (*CredentialResolver)(nil)

// CredentialResolver resolves delegated-identity credentials from a
// service account key file.
type CredentialResolver struct {
	// KeyFile is the service account key path. Empty falls back to EnvCredentials.
	KeyFile string

	getenv   func(string) string
	readFile func(string) ([]byte, error)
}

// NewCredentialResolver creates a resolver for keyFile.
func NewCredentialResolver(keyFile string) *CredentialResolver {
	return &CredentialResolver{
		KeyFile:  keyFile,
		getenv:   os.Getenv,
		readFile: os.ReadFile,
	}
}

// Resolve returns explicit when set. Otherwise it reads the key file and
// returns a token source impersonating userID. Tokens are refreshed
// whenever they expire.
func (r *CredentialResolver) Resolve(
	ctx context.Context, userID string, scopes []string, explicit driven.AuthHandle,
) (driven.AuthHandle, error) {
	if explicit != nil {
		return explicit, nil
	}

	conf, err := r.jwtConfig(userID, scopes)
	if err != nil {
		return nil, err
	}

	return conf.TokenSource(ctx), nil
}

// Describe reports where the key file comes from.
func (r *CredentialResolver) Describe() string {
	path, origin := r.keyFile()
	if path == "" {
		return "no key file configured"
	}
	return fmt.Sprintf("key file %s (from %s)", path, origin)
}

func (r *CredentialResolver) jwtConfig(userID string, scopes []string) (*jwt.Config, error) {
	path, origin := r.keyFile()
	if path == "" {
		return nil, domain.Wrap(domain.ErrAuth, "resolve credentials", nil,
			domain.F("reason", "no key file; pass --credentials or set "+EnvCredentials),
		)
	}

	data, err := r.readFile(path)
	if err != nil {
		return nil, domain.Wrap(domain.ErrAuth, "read key file", err,
			domain.F("keyFile", path),
			domain.F("origin", origin),
		)
	}

	conf, err := googleoauth.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, domain.Wrap(domain.ErrAuth, "parse key file", err,
			domain.F("keyFile", path),
		)
	}

	// The user to impersonate.
	conf.Subject = userID
	return conf, nil
}

func (r *CredentialResolver) keyFile() (path, origin string) {
	if r.KeyFile != "" {
		return r.KeyFile, "configuration"
	}
	getenv := r.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvCredentials); v != "" {
		return v, "env " + EnvCredentials
	}
	return "", ""
}

// StaticToken returns an AuthHandle for a pre-issued access token.
func StaticToken(accessToken string) driven.AuthHandle {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
}
