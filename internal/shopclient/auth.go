package shopclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Hwangsangha/ebook-client/internal/gateway"
	"github.com/Hwangsangha/ebook-client/pkg/domain"
)

// AuthClient handles registration, login and logout. On success the issued
// credential is decoded and stored; a credential the client cannot decode
// is treated the same as a failed login.
type AuthClient struct {
	gw *gateway.Client
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (domain.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return domain.Session{}, err
	}
	payload, err := c.gw.Do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	})
	if err != nil {
		return domain.Session{}, err
	}
	return c.storeCredential(payload)
}

// Register creates an account and, like the server, logs the new user
// straight in with the returned credential.
func (c *AuthClient) Register(ctx context.Context, email, password, name string) (domain.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return domain.Session{}, err
	}
	if strings.TrimSpace(name) == "" {
		return domain.Session{}, &ValidationError{Field: "name", Reason: "is required"}
	}
	payload, err := c.gw.Do(ctx, http.MethodPost, "/auth/register", nil, map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
		"name":     strings.TrimSpace(name),
	})
	if err != nil {
		return domain.Session{}, err
	}
	return c.storeCredential(payload)
}

// Logout drops the local session; the server keeps no session state to
// invalidate.
func (c *AuthClient) Logout() error {
	return c.gw.Sessions().Clear()
}

func (c *AuthClient) storeCredential(payload json.RawMessage) (domain.Session, error) {
	var resp loginResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return domain.Session{}, fmt.Errorf("decode login response: %w", err)
	}
	sess, err := c.gw.Sessions().Set(resp.AccessToken)
	if err != nil {
		return domain.Session{}, fmt.Errorf("login failed: %w", err)
	}
	c.gw.ResetExpiry()
	return sess, nil
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "is required"}
	}
	return nil
}
