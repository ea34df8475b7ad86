package mock

import (
	"net/http"
)

const (
	noActiveAccount = "No active account found with the given credentials"
	tokenNotValid   = "token_not_valid"
)

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}{}
	if !decode(w, r, input) {
		return
	}
	identifier := input.Email
	if identifier == "" {
		identifier = input.Username
	}
	user, ok := s.lookup(identifier)
	if !ok || input.Password == "" || user.password != input.Password {
		writeDetail(w, http.StatusUnauthorized, noActiveAccount, "")
		return
	}
	pair, err := s.issuePair(user.ID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// refresh rotates the refresh token: the presented one is consumed.
func (s *Service) refresh(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		Refresh string `json:"refresh"`
	}{}
	if !decode(w, r, input) {
		return
	}
	if errs := required(map[string]string{"refresh": input.Refresh}); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	claims, err := s.verify(input.Refresh, refreshTokenType)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Token is invalid or expired", tokenNotValid)
		return
	}
	if _, ok := s.tokens.Take(claims.ID); !ok {
		writeDetail(w, http.StatusUnauthorized, "Token is invalid or expired", tokenNotValid)
		return
	}
	pair, err := s.issuePair(claims.UserID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
