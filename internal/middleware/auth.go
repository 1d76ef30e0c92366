// Package middleware provides HTTP middlewares for authentication,
// logging, rate limiting and metrics.
package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/sealbid/sealbid/internal/models"
)

type ctxKey string

const addressKey ctxKey = "address"

// CredentialVerifier checks a bearer credential against the stored
// challenge and bound wallet key.
type CredentialVerifier interface {
	Verify(ctx context.Context, cred models.Credential) error
}

// BearerAuth enforces the bearer credential scheme: the Authorization
// header carries base64(address:signature) as a Basic token and the
// X-Wallet-Key header carries the wallet verification key. On success the
// wallet address is stored in the request context as the authenticated
// caller identity.
func BearerAuth(verifier CredentialVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred, ok := parseCredential(r)
			if !ok {
				http.Error(w, "missing or malformed bearer credential", http.StatusUnauthorized)
				return
			}
			if err := verifier.Verify(r.Context(), cred); err != nil {
				http.Error(w, "invalid bearer credential", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), addressKey, cred.Address)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseCredential(r *http.Request) (models.Credential, bool) {
	var cred models.Credential

	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Basic ")
	if !ok {
		return cred, false
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return cred, false
	}
	address, signature, ok := strings.Cut(string(raw), ":")
	if !ok || address == "" || signature == "" {
		return cred, false
	}

	cred.Address = address
	cred.Signature = signature
	cred.PublicKey = r.Header.Get("X-Wallet-Key")
	return cred, cred.PublicKey != ""
}

// GetAddressFromContext extracts the authenticated wallet address from
// the request context. Returns an empty string if not found.
func GetAddressFromContext(ctx context.Context) string {
	val := ctx.Value(addressKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
