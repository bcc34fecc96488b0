package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/kikundi/chama/internal/api/domain"
	"github.com/kikundi/chama/internal/api/store"
	"github.com/kikundi/chama/pkg/idx"
	"github.com/kikundi/chama/pkg/slogx"
)

const maxNoteLen = 255

type CreateContributionInput struct {
	GroupID string
	Amount  int64
	Note    string
}

type ContributionService struct {
	Store store.Store
}

// Create records a payment by userID into one of their groups.
func (s *ContributionService) Create(ctx context.Context, userID string, in CreateContributionInput) (domain.Contribution, error) {
	in.Note = strings.TrimSpace(in.Note)

	var v validator
	v.amount("amount", in.Amount, 1)
	v.maxLen("note", in.Note, maxNoteLen)
	if err := v.err(); err != nil {
		return domain.Contribution{}, err
	}

	m, err := memberOfReferencedGroup(ctx, s.Store, in.GroupID, userID)
	if err != nil {
		return domain.Contribution{}, err
	}

	c := domain.Contribution{
		ID:        idx.New().String(),
		GroupID:   in.GroupID,
		UserID:    userID,
		Username:  m.Username,
		Amount:    in.Amount,
		Note:      in.Note,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Contributions().CreateContribution(ctx, c); err != nil {
		return domain.Contribution{}, err
	}

	slogx.FromContext(ctx).Info("contribution recorded",
		slog.String("group_id", c.GroupID),
		slog.Int64("amount", c.Amount),
	)
	return c, nil
}

// List returns a group's contributions, newest first.
func (s *ContributionService) List(ctx context.Context, userID, groupID string) ([]domain.Contribution, error) {
	if _, err := requireMember(ctx, s.Store, groupID, userID); err != nil {
		return nil, err
	}
	return s.Store.Contributions().ListGroupContributions(ctx, groupID)
}
