package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/blackwell-systems/libconsole/internal/records"
)

// LoginResult is a successful login. User is nil when the response carried
// no user object and the profile must be fetched.
type LoginResult struct {
	Token string
	User  *records.User
}

type loginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var loginMessages = messages{
	"email":    "Email is required",
	"password": "Password is required",
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	p := loginPayload{Email: strings.TrimSpace(email), Password: strings.TrimSpace(password)}
	if err := check(p, loginMessages); err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := c.doJSON(ctx, http.MethodPost, c.url("auth", "login"), p, &raw); err != nil {
		return nil, toError(err, "Invalid credentials")
	}
	tok, _ := raw["access_token"].(string)
	if tok == "" {
		return nil, &Error{Message: "No access token received", err: ErrRejected}
	}
	res := &LoginResult{Token: tok}
	if u, ok := raw["user"].(map[string]any); ok {
		user := records.NormalizeUser(u)
		res.User = &user
	}
	return res, nil
}

// builtinProfile is used when neither the backend nor the token yield an identity.
var builtinProfile = records.User{ID: "1", Username: "admin", Email: "admin@library.com", Role: records.RoleAdmin}

// Profile resolves the current identity: the GET /auth/users entry that
// matches the token's subject or email (the first entry when none does),
// else the unverified token claims, else a built-in admin profile. A
// rejected or expired token is an error.
func (c *Client) Profile(ctx context.Context) (records.User, error) {
	raw, err := c.getRaw(ctx, c.url("auth", "users"))
	if err == nil {
		if u, ok := matchUser(records.Collection(raw, "users"), c.claims()); ok {
			return u, nil
		}
	} else if errors.Is(err, ErrUnauthorized) {
		return records.User{}, toError(err, "Session expired. Please login again.")
	}

	u, err := c.claimsProfile()
	if err != nil {
		return records.User{}, err
	}
	if u != nil {
		return *u, nil
	}
	return builtinProfile, nil
}

// matchUser picks the entry of list describing the token holder.
func matchUser(list []any, claims jwt.MapClaims) (records.User, bool) {
	var users []records.User
	for _, item := range list {
		if _, ok := item.(map[string]any); ok {
			users = append(users, records.NormalizeUser(item))
		}
	}
	if len(users) == 0 {
		return records.User{}, false
	}
	if claims != nil {
		me := records.NormalizeUser(map[string]any(claims))
		if !hasAny(claims, "id", "sub", "user_id") {
			me.ID = "" // NormalizeUser numbers anonymous records
		}
		for _, u := range users {
			if me.ID != "" && u.ID == me.ID {
				return u, true
			}
		}
		for _, u := range users {
			if me.Email != "" && strings.EqualFold(u.Email, me.Email) {
				return u, true
			}
		}
	}
	return users[0], true
}

func hasAny(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if m[k] != nil {
			return true
		}
	}
	return false
}

// claims parses the token without verifying its signature. It returns nil
// when there is no token or it is not a JWT.
func (c *Client) claims() jwt.MapClaims {
	tok := c.token()
	if tok == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil
	}
	return claims
}

// claimsProfile reads the identity from the token claims; the backend
// remains the authority. It returns nil when the token is not a JWT.
func (c *Client) claimsProfile() (*records.User, error) {
	claims := c.claims()
	if claims == nil {
		return nil, nil
	}
	if !claims.VerifyExpiresAt(c.now().Unix(), false) {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "Session expired. Please login again.", err: ErrUnauthorized}
	}
	u := records.NormalizeUser(map[string]any(claims))
	if u.Role == records.RoleLibrarian && claims["role"] == nil {
		u.Role = records.RoleAdmin
	}
	return &u, nil
}

// Logout ends the session. The backend exposes no logout endpoint, so this
// is local only and never fails.
func (c *Client) Logout(ctx context.Context) error {
	return nil
}
