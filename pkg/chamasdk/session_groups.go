package chamasdk

import (
	"context"
	"net/http"
	"net/url"
)

// Member operations - profile, groups and membership

// ============================================================================
// Profile
// ============================================================================

// Me returns the signed-in user.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var user User
	if err := s.get(ctx, "/api/me/", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ============================================================================
// Groups
// ============================================================================

// ListGroups returns the groups the user belongs to.
func (s *Session) ListGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := s.get(ctx, "/api/groups/", &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// BrowseGroups returns every group, including those the user has not
// joined yet.
func (s *Session) BrowseGroups(ctx context.Context) ([]Group, error) {
	resp, err := s.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   "/api/groups/",
		Query:  url.Values{"scope": {"all"}},
	})
	if err != nil {
		return nil, err
	}
	var groups []Group
	if err := decodeJSON(resp, &groups, http.StatusOK); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroup returns a single group. The user must be a member.
func (s *Session) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	var group Group
	if err := s.get(ctx, groupPath(groupID, ""), &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateGroup creates a group with the user as its admin.
func (s *Session) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	var group Group
	if err := s.doJSON(ctx, http.MethodPost, "/api/groups/", req, &group, http.StatusCreated); err != nil {
		return nil, err
	}
	return &group, nil
}

// JoinGroup adds the user to a group as a member.
func (s *Session) JoinGroup(ctx context.Context, groupID string) (*Member, error) {
	var member Member
	if err := s.doJSON(ctx, http.MethodPost, groupPath(groupID, "join/"), nil, &member, http.StatusCreated); err != nil {
		return nil, err
	}
	return &member, nil
}

// GroupMembers lists a group's members.
func (s *Session) GroupMembers(ctx context.Context, groupID string) ([]Member, error) {
	var members []Member
	if err := s.get(ctx, groupPath(groupID, "members/"), &members); err != nil {
		return nil, err
	}
	return members, nil
}

func groupPath(groupID, suffix string) string {
	return "/api/groups/" + url.PathEscape(groupID) + "/" + suffix
}
