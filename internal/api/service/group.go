package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kikundi/chama/internal/api/domain"
	"github.com/kikundi/chama/internal/api/store"
	"github.com/kikundi/chama/pkg/idx"
	"github.com/kikundi/chama/pkg/slogx"
)

const maxGroupNameLen = 100

type CreateGroupInput struct {
	Name         string
	Description  string
	TargetAmount int64
}

type GroupService struct {
	Store store.Store
}

// CreateGroup creates a group with userID as its first admin.
func (s *GroupService) CreateGroup(ctx context.Context, userID string, in CreateGroupInput) (domain.Group, error) {
	in.Name = strings.TrimSpace(in.Name)

	var v validator
	v.required("name", in.Name)
	v.maxLen("name", in.Name, maxGroupNameLen)
	v.amount("target_amount", in.TargetAmount, 0)
	if err := v.err(); err != nil {
		return domain.Group{}, err
	}

	now := time.Now().UTC()
	g := domain.Group{
		ID:           idx.New().String(),
		Name:         in.Name,
		Description:  strings.TrimSpace(in.Description),
		TargetAmount: in.TargetAmount,
		CreatedBy:    userID,
		MemberCount:  1,
		CreatedAt:    now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Groups().CreateGroup(ctx, g); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fieldError("name", "chama group with this name already exists.")
			}
			return err
		}
		return tx.Members().AddMember(ctx, domain.Membership{
			GroupID:  g.ID,
			UserID:   userID,
			Role:     domain.RoleAdmin,
			JoinedAt: now,
		})
	})
	if err != nil {
		return domain.Group{}, err
	}

	slogx.FromContext(ctx).Info("group created", slog.String("group_id", g.ID))
	return g, nil
}

// GetGroup returns a group the user belongs to.
func (s *GroupService) GetGroup(ctx context.Context, userID, groupID string) (domain.Group, error) {
	if _, err := requireMember(ctx, s.Store, groupID, userID); err != nil {
		return domain.Group{}, err
	}
	return s.Store.Groups().GetGroup(ctx, groupID)
}

// ListGroups returns the user's groups, or every group when all is set.
func (s *GroupService) ListGroups(ctx context.Context, userID string, all bool) ([]domain.Group, error) {
	if all {
		return s.Store.Groups().ListGroups(ctx)
	}
	return s.Store.Groups().ListMemberGroups(ctx, userID)
}

// Join adds userID to a group as a plain member.
func (s *GroupService) Join(ctx context.Context, userID, groupID string) (domain.Membership, error) {
	if _, err := idx.Parse(groupID); err != nil {
		return domain.Membership{}, ErrNotFound
	}
	if _, err := s.Store.Groups().GetGroup(ctx, groupID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrNotFound
		}
		return domain.Membership{}, err
	}

	m := domain.Membership{
		GroupID:  groupID,
		UserID:   userID,
		Role:     domain.RoleMember,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.Store.Members().AddMember(ctx, m); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Membership{}, fieldError(NonFieldErrors, "You are already a member of this group.")
		}
		return domain.Membership{}, err
	}

	// Re-read for the joined username.
	return s.Store.Members().GetMember(ctx, groupID, userID)
}

func (s *GroupService) Members(ctx context.Context, userID, groupID string) ([]domain.Membership, error) {
	if _, err := requireMember(ctx, s.Store, groupID, userID); err != nil {
		return nil, err
	}
	return s.Store.Members().ListMembers(ctx, groupID)
}

// requireMember returns the user's membership in groupID. It fails with
// ErrNotFound for an unknown group and ErrForbidden for an outsider.
func requireMember(ctx context.Context, st store.Store, groupID, userID string) (domain.Membership, error) {
	if _, err := idx.Parse(groupID); err != nil {
		return domain.Membership{}, ErrNotFound
	}

	m, err := st.Members().GetMember(ctx, groupID, userID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Membership{}, err
	}

	if _, err := st.Groups().GetGroup(ctx, groupID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrNotFound
		}
		return domain.Membership{}, err
	}
	return domain.Membership{}, ErrForbidden
}

// memberOfReferencedGroup is requireMember for a group named in a request
// body, where an unknown id is an input error rather than a missing route.
func memberOfReferencedGroup(ctx context.Context, st store.Store, groupID, userID string) (domain.Membership, error) {
	if strings.TrimSpace(groupID) == "" {
		return domain.Membership{}, fieldError("group", msgRequired)
	}
	m, err := requireMember(ctx, st, groupID, userID)
	if errors.Is(err, ErrNotFound) {
		return domain.Membership{}, fieldError("group", `Invalid pk "`+groupID+`" - object does not exist.`)
	}
	return m, err
}
