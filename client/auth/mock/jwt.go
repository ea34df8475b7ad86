package mock

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

var errTokenNotValid = errors.New("token not valid")

type issued struct {
	userID int
	kind   string
}

type claims struct {
	TokenType string `json:"token_type"`
	UserID    int    `json:"user_id"`
	jwt.RegisteredClaims
}

// createJWT creates a signed JWT token for userID with the given type and expiry
func (s *Service) createJWT(userID int, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	id := uuid.New().String()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, &claims{
		TokenType: tokenType,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    s.Issuer,
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	})
	signed, err := token.SignedString(s.PrivateKey)
	if err != nil {
		return "", err
	}
	s.tokens.Put(id, &issued{userID: userID, kind: tokenType})
	return signed, nil
}

// verify validates signature, expiry and type of raw and returns its claims;
// revoked tokens are rejected.
func (s *Service) verify(raw, tokenType string) (*claims, error) {
	ret := &claims{}
	_, err := jwt.ParseWithClaims(raw, ret, func(token *jwt.Token) (interface{}, error) {
		return &s.PrivateKey.PublicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithIssuer(s.Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTokenNotValid, err)
	}
	if ret.TokenType != tokenType {
		return nil, fmt.Errorf("%w: expected %v token", errTokenNotValid, tokenType)
	}
	record, ok := s.tokens.Get(ret.ID)
	if !ok || record.kind != tokenType {
		return nil, fmt.Errorf("%w: revoked", errTokenNotValid)
	}
	return ret, nil
}

// issuePair creates an access and refresh token for userID.
func (s *Service) issuePair(userID int) (map[string]string, error) {
	access, err := s.createJWT(userID, accessTokenType, s.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.createJWT(userID, refreshTokenType, s.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return map[string]string{"access": access, "refresh": refresh}, nil
}
