package http

import (
	"errors"
	"net/http"

	"github.com/kikundi/chama/internal/api/service"
	"github.com/kikundi/chama/pkg/chamasdk"
	"github.com/kikundi/chama/pkg/httpx"
	"github.com/kikundi/chama/pkg/slogx"
)

type TokenHandler struct {
	TokenService *service.TokenService
	UserService  *service.UserService
}

// HandleObtain exchanges a username and password for a token pair.
//
//	@Summary		Obtain a token pair
//	@Description	Checks the credentials and returns a short-lived access token and a refresh token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chamasdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	chamasdk.TokenPair
//	@Failure		400		{object}	map[string][]string	"Missing fields"
//	@Failure		401		{object}	httpx.ErrorBody		"No active account found with the given credentials"
//	@Failure		429		{object}	httpx.ErrorBody		"Rate limit exceeded"
//	@Router			/api/token/ [post].
func (h *TokenHandler) HandleObtain(w http.ResponseWriter, r *http.Request) {
	var req chamasdk.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.TokenService.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		httpx.WriteDetail(w, http.StatusUnauthorized, "No active account found with the given credentials", "no_active_account")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chamasdk.TokenPair{Access: pair.Access, Refresh: pair.Refresh})
}

// HandleRefresh exchanges a refresh token for a new access token.
//
//	@Summary		Refresh an access token
//	@Description	Returns a new access token. When rotation is enabled the reply also carries a new refresh token and the presented one is revoked.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chamasdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	chamasdk.TokenPair
//	@Failure		400		{object}	map[string][]string	"Missing refresh token"
//	@Failure		401		{object}	httpx.ErrorBody		"Token is invalid or expired"
//	@Failure		429		{object}	httpx.ErrorBody		"Rate limit exceeded"
//	@Router			/api/token/refresh/ [post].
func (h *TokenHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req chamasdk.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), req.Refresh)
	if errors.Is(err, service.ErrInvalidRefresh) {
		writeInvalidRefresh(w)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chamasdk.TokenPair{Access: pair.Access, Refresh: pair.Refresh})
}

// HandleBlacklist revokes a refresh token.
//
//	@Summary		Blacklist a refresh token
//	@Description	Revokes the refresh token so it can no longer be exchanged. Used on logout.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chamasdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string][]string	"Missing refresh token"
//	@Failure		401		{object}	httpx.ErrorBody		"Token is invalid or expired"
//	@Router			/api/token/blacklist/ [post].
func (h *TokenHandler) HandleBlacklist(w http.ResponseWriter, r *http.Request) {
	var req chamasdk.RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.TokenService.Blacklist(r.Context(), req.Refresh)
	if errors.Is(err, service.ErrInvalidRefresh) {
		writeInvalidRefresh(w)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}

// HandleRegister creates an account and signs it in.
//
//	@Summary		Register
//	@Description	Creates a member account and returns its first token pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chamasdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	chamasdk.TokenPair
//	@Failure		400		{object}	map[string][]string	"Field errors"
//	@Failure		429		{object}	httpx.ErrorBody		"Rate limit exceeded"
//	@Router			/api/register/ [post].
func (h *TokenHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req chamasdk.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	u, pair, err := h.UserService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Debug("registration issued tokens", "user_id", u.ID)
	httpx.WriteJSON(w, http.StatusCreated, chamasdk.TokenPair{Access: pair.Access, Refresh: pair.Refresh})
}

func writeInvalidRefresh(w http.ResponseWriter) {
	httpx.WriteDetail(w, http.StatusUnauthorized, "Token is invalid or expired", httpx.CodeTokenNotValid)
}
