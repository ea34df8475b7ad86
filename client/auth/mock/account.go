package mock

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type account struct {
	ID       int    `json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	password string
}

// Reset is a pending forgot-password request.
type Reset struct {
	ID     string
	Token  string
	Email  string
	userID int
}

type registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"conf_password"`
}

type passwordReset struct {
	ID              string `json:"uid"`
	Token           string `json:"token"`
	NewPassword     string `json:"new_pass"`
	ConfirmPassword string `json:"conf_pass"`
}

// AddUser registers an account directly and returns its id.
func (s *Service) AddUser(email, password string) int {
	id := int(s.userSeq.Add(1))
	s.users.Put(id, &account{ID: id, Email: email, Username: email, password: password})
	return id
}

// Reset returns the pending reset for email.
func (s *Service) Reset(email string) (*Reset, bool) {
	var ret *Reset
	s.resets.Range(func(_ string, reset *Reset) bool {
		if strings.EqualFold(reset.Email, email) {
			ret = reset
			return false
		}
		return true
	})
	return ret, ret != nil
}

// lookup finds an account by email or username, case-insensitively.
func (s *Service) lookup(identifier string) (*account, bool) {
	var ret *account
	s.users.Range(func(_ int, user *account) bool {
		if strings.EqualFold(user.Email, identifier) || (user.Username != "" && strings.EqualFold(user.Username, identifier)) {
			ret = user
			return false
		}
		return true
	})
	return ret, ret != nil
}

func (s *Service) register(w http.ResponseWriter, r *http.Request) {
	input := &registration{}
	if !decode(w, r, input) {
		return
	}
	errs := required(map[string]string{
		"email":         input.Email,
		"password":      input.Password,
		"conf_password": input.ConfirmPassword,
	})
	if len(errs) == 0 && input.Password != input.ConfirmPassword {
		errs["conf_password"] = []string{"Passwords do not match."}
	}
	if _, ok := s.lookup(input.Email); ok {
		errs["email"] = append(errs["email"], "user with this email already exists.")
	}
	if input.Username != "" {
		if _, ok := s.lookup(input.Username); ok {
			errs["username"] = append(errs["username"], "A user with that username already exists.")
		}
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	id := int(s.userSeq.Add(1))
	user := &account{ID: id, Name: input.Name, Email: input.Email, Username: input.Username, password: input.Password}
	s.users.Put(id, user)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Service) forgotPassword(w http.ResponseWriter, r *http.Request) {
	input := &struct {
		Email string `json:"email"`
	}{}
	if !decode(w, r, input) {
		return
	}
	if errs := required(map[string]string{"email": input.Email}); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	// unknown emails get the same answer
	if user, ok := s.lookup(input.Email); ok {
		reset := &Reset{ID: uuid.New().String(), Token: uuid.New().String(), Email: user.Email, userID: user.ID}
		s.resets.DeleteFunc(func(_ string, prior *Reset) bool { return prior.userID == user.ID })
		s.resets.Put(reset.ID, reset)
	}
	writeDetail(w, http.StatusOK, "Password reset link sent.", "")
}

func (s *Service) resetPassword(w http.ResponseWriter, r *http.Request) {
	input := &passwordReset{}
	if !decode(w, r, input) {
		return
	}
	errs := required(map[string]string{
		"uid":       input.ID,
		"token":     input.Token,
		"new_pass":  input.NewPassword,
		"conf_pass": input.ConfirmPassword,
	})
	if len(errs) == 0 && input.NewPassword != input.ConfirmPassword {
		errs["conf_pass"] = []string{"Passwords do not match."}
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}
	reset, ok := s.resets.Get(input.ID)
	if !ok || reset.Token != input.Token {
		writeDetail(w, http.StatusBadRequest, "Invalid or expired reset link.", "invalid_reset")
		return
	}
	user, ok := s.users.Get(reset.userID)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid or expired reset link.", "invalid_reset")
		return
	}
	s.resets.Delete(reset.ID)
	s.users.Put(user.ID, &account{ID: user.ID, Name: user.Name, Email: user.Email, Username: user.Username, password: input.NewPassword})
	s.RevokeSession(user.ID)
	writeDetail(w, http.StatusOK, "Password has been reset.", "")
}
