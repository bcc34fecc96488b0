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

const maxInvestmentNameLen = 100

type CreateInvestmentInput struct {
	GroupID        string
	Name           string
	Amount         int64
	ExpectedReturn int64
}

type InvestmentService struct {
	Store store.Store
}

// Create places part of a group's pool. Only group admins may invest and
// only up to the available balance.
func (s *InvestmentService) Create(ctx context.Context, userID string, in CreateInvestmentInput) (domain.Investment, error) {
	in.Name = strings.TrimSpace(in.Name)

	var v validator
	v.required("name", in.Name)
	v.maxLen("name", in.Name, maxInvestmentNameLen)
	v.amount("amount", in.Amount, 1)
	v.amount("expected_return", in.ExpectedReturn, 0)
	if err := v.err(); err != nil {
		return domain.Investment{}, err
	}

	inv := domain.Investment{
		ID:             idx.New().String(),
		GroupID:        in.GroupID,
		Name:           in.Name,
		Amount:         in.Amount,
		ExpectedReturn: in.ExpectedReturn,
		CreatedBy:      userID,
		CreatedAt:      time.Now().UTC(),
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, err := memberOfReferencedGroup(ctx, tx, in.GroupID, userID)
		if err != nil {
			return err
		}
		if m.Role != domain.RoleAdmin {
			return ErrForbidden
		}

		balance, err := tx.Groups().GetBalance(ctx, in.GroupID)
		if err != nil {
			return err
		}
		if in.Amount > balance.Available() {
			return fieldError("amount", msgNoFunds)
		}
		return tx.Investments().CreateInvestment(ctx, inv)
	})
	if err != nil {
		return domain.Investment{}, err
	}

	slogx.FromContext(ctx).Info("investment recorded",
		slog.String("group_id", inv.GroupID),
		slog.Int64("amount", inv.Amount),
	)
	return inv, nil
}

// List returns a group's investments, newest first.
func (s *InvestmentService) List(ctx context.Context, userID, groupID string) ([]domain.Investment, error) {
	if _, err := requireMember(ctx, s.Store, groupID, userID); err != nil {
		return nil, err
	}
	return s.Store.Investments().ListGroupInvestments(ctx, groupID)
}
