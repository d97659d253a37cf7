// Package session carries the authenticated user's working context through
// the request chain. It replaces ambient globals: every operation that needs
// the access token, company code or permission snapshot receives them via
// context.Context.
package session

import (
	"context"
)

// Session contains the authenticated user's working context for one request.
type Session struct {
	UserID      string
	UserName    string
	CompanyCode string
	Permissions []string
	IsAdmin     bool

	// AccessToken is the raw bearer token, forwarded to downstream services.
	AccessToken string
}

type sessionKey struct{}

// WithSession adds Session to context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// Get returns the Session from context, or nil.
func Get(ctx context.Context) *Session {
	if v, ok := ctx.Value(sessionKey{}).(*Session); ok {
		return v
	}
	return nil
}

// UserName returns the user name from context or empty string.
func UserName(ctx context.Context) string {
	if s := Get(ctx); s != nil {
		return s.UserName
	}
	return ""
}

// CompanyCode returns the company code from context or empty string.
func CompanyCode(ctx context.Context) string {
	if s := Get(ctx); s != nil {
		return s.CompanyCode
	}
	return ""
}

// HasPermission checks if the session holds a specific permission.
func HasPermission(ctx context.Context, perm string) bool {
	s := Get(ctx)
	if s == nil {
		return false
	}
	if s.IsAdmin {
		return true
	}
	for _, p := range s.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
