package http

import (
	"net/http"

	"github.com/kikundi/chama/internal/api/service"
	"github.com/kikundi/chama/pkg/chamasdk"
	"github.com/kikundi/chama/pkg/httpx"
)

type GroupsHandler struct {
	GroupService *service.GroupService
}

// HandleList lists the caller's groups.
//
//	@Summary		List groups
//	@Description	Returns the groups the caller belongs to, or every group with scope=all.
//	@Tags			Groups
//	@Security		BearerAuth
//	@Produce		json
//	@Param			scope	query		string	false	"all to list every group"
//	@Success		200		{array}		chamasdk.Group
//	@Failure		401		{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Router			/api/groups/ [get].
func (h *GroupsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("scope") == "all"

	groups, err := h.GroupService.ListGroups(r.Context(), principal(r).UserID, all)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(groups, toGroup))
}

// HandleCreate creates a group with the caller as admin.
//
//	@Summary		Create group
//	@Tags			Groups
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chamasdk.CreateGroupRequest	true	"Group"
//	@Success		201		{object}	chamasdk.Group
//	@Failure		400		{object}	map[string][]string	"Field errors"
//	@Failure		401		{object}	httpx.ErrorBody		"Invalid or missing access token"
//	@Router			/api/groups/ [post].
func (h *GroupsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req chamasdk.CreateGroupRequest
	if !decode(w, r, &req) {
		return
	}

	g, err := h.GroupService.CreateGroup(r.Context(), principal(r).UserID, service.CreateGroupInput{
		Name:         req.Name,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toGroup(g))
}

// HandleGet returns one group.
//
//	@Summary		Get group
//	@Tags			Groups
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Group ID"
//	@Success		200	{object}	chamasdk.Group
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Failure		403	{object}	httpx.ErrorBody	"Not a member"
//	@Failure		404	{object}	httpx.ErrorBody	"Unknown group"
//	@Router			/api/groups/{id}/ [get].
func (h *GroupsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	g, err := h.GroupService.GetGroup(r.Context(), principal(r).UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toGroup(g))
}

// HandleJoin adds the caller to a group.
//
//	@Summary		Join group
//	@Tags			Groups
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Group ID"
//	@Success		201	{object}	chamasdk.Member
//	@Failure		400	{object}	map[string][]string	"Already a member"
//	@Failure		401	{object}	httpx.ErrorBody		"Invalid or missing access token"
//	@Failure		404	{object}	httpx.ErrorBody		"Unknown group"
//	@Router			/api/groups/{id}/join/ [post].
func (h *GroupsHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	m, err := h.GroupService.Join(r.Context(), principal(r).UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMember(m))
}

// HandleMembers lists a group's members.
//
//	@Summary		List members
//	@Tags			Groups
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Group ID"
//	@Success		200	{array}		chamasdk.Member
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Failure		403	{object}	httpx.ErrorBody	"Not a member"
//	@Failure		404	{object}	httpx.ErrorBody	"Unknown group"
//	@Router			/api/groups/{id}/members/ [get].
func (h *GroupsHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.GroupService.Members(r.Context(), principal(r).UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(members, toMember))
}
