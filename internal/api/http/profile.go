package http

import (
	"net/http"

	"github.com/kikundi/chama/internal/api/service"
	"github.com/kikundi/chama/pkg/httpx"
)

type ProfileHandler struct {
	UserService *service.UserService
}

// HandleMe returns the authenticated member.
//
//	@Summary		Current user
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	chamasdk.User
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Router			/api/me/ [get].
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUserByID(r.Context(), principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// HandleListUsers lists every account.
//
//	@Summary		List users
//	@Description	Staff only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		chamasdk.User
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Failure		403	{object}	httpx.ErrorBody	"Not staff"
//	@Router			/api/admin/users/ [get].
func (h *ProfileHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(users, toUser))
}
