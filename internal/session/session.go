// Package session holds the client's authentication state: the access
// credential issued at login plus the subject id and role decoded from it.
// The three fields are stored and cleared together; a partial session is
// never observable.
package session

import (
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

// ErrMalformedCredential indicates the server-issued token could not be
// decoded. Callers treat this the same as a failed login.
var ErrMalformedCredential = errors.New("malformed credential")

// Store persists the session. Implementations are not safe for concurrent
// writers; all access is expected from a single caller goroutine.
type Store interface {
	// Set decodes the credential's claims and persists credential,
	// subject and role together. A malformed credential leaves the
	// store empty and returns ErrMalformedCredential.
	Set(credential string) (domain.Session, error)
	// Get returns the current session; a zero Session means logged out.
	Get() domain.Session
	// Clear removes all session state. Idempotent.
	Clear() error
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// decodeSession extracts subject and role from the credential without
// verifying the signature; verification is the server's job, the client
// only needs the embedded identity for display and request scoping.
func decodeSession(credential string) (domain.Session, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return domain.Session{}, ErrMalformedCredential
	}
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(credential, &claims); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return domain.Session{}, fmt.Errorf("%w: missing subject", ErrMalformedCredential)
	}
	role := domain.Role(strings.ToUpper(strings.TrimSpace(claims.Role)))
	if role == "" {
		role = domain.RoleUser
	}
	return domain.Session{Token: credential, UserID: subject, Role: role}, nil
}
