package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aalvaropc/screepsdeploy/internal/buildinfo"
	"github.com/aalvaropc/screepsdeploy/internal/domain"
)

// TokenHeader carries a Screeps auth token.
const TokenHeader = "X-Token"

// BuildJSONRequest encodes payload as the request body and attaches cred.
func BuildJSONRequest(ctx context.Context, method, url string, payload any, cred domain.Credential) (*http.Request, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("empty url: %w", domain.ErrInvalidConfig),
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	if err := Authenticate(req, cred); err != nil {
		return nil, err
	}
	return req, nil
}

// Authenticate attaches exactly one credential form to req.
func Authenticate(req *http.Request, cred domain.Credential) error {
	switch cred.Kind {
	case domain.CredentialToken:
		req.Header.Set(TokenHeader, cred.Token)
	case domain.CredentialBasic:
		req.SetBasicAuth(cred.Username, cred.Password)
	default:
		return &domain.OpError{
			Op:   "httpclient.auth",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("no credential configured: %w", domain.ErrInvalidConfig),
		}
	}
	return nil
}
