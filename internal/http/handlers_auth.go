package http

import (
	"errors"
	"net/http"

	"moneytrack/internal/core"
	"moneytrack/internal/services"
	"moneytrack/internal/storage"
)

var errMissingCredentials = errors.New("email and password are required")

// authResponse is the register/login payload: the user plus a signed token.
type authResponse struct {
	User  core.User `json:"user"`
	Token string    `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Currency string `json:"currency"`
		Timezone string `json:"timezone"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), services.RegisterInput{
		Name:     sanitizeInput(in.Name),
		Email:    sanitizeInput(in.Email),
		Password: in.Password,
		Currency: sanitizeInput(in.Currency),
		Timezone: sanitizeInput(in.Timezone),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if in.Email == "" || in.Password == "" {
		writeError(w, r, errMissingCredentials)
		return
	}

	user, token, err := s.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Currency *string `json:"currency"`
		Timezone *string `json:"timezone"`
		Picture  *string `json:"picture"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), r.PathValue("id"), storage.UserUpdate{
		Name:     in.Name,
		Email:    in.Email,
		Currency: in.Currency,
		Timezone: in.Timezone,
		Picture:  in.Picture,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "User deleted"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.users.ChangePassword(r.Context(), r.PathValue("id"), in.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Password updated"})
}

// handleCheckPassword verifies the X-Password header against the stored hash
// and answers with a bare boolean.
func (s *Server) handleCheckPassword(w http.ResponseWriter, r *http.Request) {
	ok, err := s.users.CheckPassword(r.Context(), r.PathValue("id"), r.Header.Get("X-Password"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ok)
}

// handleForgotPassword always answers 200 so the endpoint cannot be used to
// probe which addresses are registered.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := s.users.ForgotPassword(r.Context(), r.PathValue("email")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Email has been sent"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.users.ResetPassword(r.Context(), r.PathValue("id"), in.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Password updated"})
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Currencies())
}

func (s *Server) handleTimezones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Timezones())
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.repo.Categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
