// Package session reports on the session held by a credential store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/authclient/client/auth/store"
	"golang.org/x/oauth2"
)

// Info describes the stored session. Claims are decoded without signature
// verification, so they are informational only.
type Info struct {
	Authenticated bool      `json:"authenticated"`
	Subject       string    `json:"subject,omitempty"`
	UserID        string    `json:"userId,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Expired       bool      `json:"expired"`
	// HasRefresh reports whether the session can be renewed after access token expiry.
	HasRefresh bool `json:"hasRefresh"`
}

// Inspect reads the store; a session is authenticated iff an access token is stored.
func Inspect(ctx context.Context, s store.Store) (*Info, error) {
	token, err := store.TokenSource(ctx, s).Token()
	if errors.Is(err, store.ErrNoToken) {
		return &Info{}, nil
	}
	if err != nil {
		return nil, err
	}
	return inspect(token, time.Now()), nil
}

func inspect(token *oauth2.Token, now time.Time) *Info {
	ret := &Info{Authenticated: token.AccessToken != "", HasRefresh: token.RefreshToken != ""}
	if !ret.Authenticated {
		return ret
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser(jwt.WithJSONNumber()).ParseUnverified(token.AccessToken, claims); err != nil {
		return ret // opaque token
	}
	ret.Subject, _ = claims.GetSubject()
	ret.UserID = claimString(claims["user_id"])
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ret.ExpiresAt = exp.Time
		ret.Expired = !now.Before(exp.Time)
	}
	return ret
}

func claimString(value interface{}) string {
	switch actual := value.(type) {
	case nil:
		return ""
	case string:
		return actual
	case json.Number:
		return actual.String()
	default:
		return fmt.Sprint(actual)
	}
}
