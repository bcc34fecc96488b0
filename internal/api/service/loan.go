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

const maxPurposeLen = 255

type ApplyLoanInput struct {
	GroupID string
	Amount  int64
	Purpose string
}

type LoanService struct {
	Store store.Store
}

// Apply files a pending loan request against one of the user's groups.
func (s *LoanService) Apply(ctx context.Context, userID string, in ApplyLoanInput) (domain.Loan, error) {
	in.Purpose = strings.TrimSpace(in.Purpose)

	var v validator
	v.amount("amount", in.Amount, 1)
	v.required("purpose", in.Purpose)
	v.maxLen("purpose", in.Purpose, maxPurposeLen)
	if err := v.err(); err != nil {
		return domain.Loan{}, err
	}

	m, err := memberOfReferencedGroup(ctx, s.Store, in.GroupID, userID)
	if err != nil {
		return domain.Loan{}, err
	}

	loan := domain.Loan{
		ID:        idx.New().String(),
		GroupID:   in.GroupID,
		UserID:    userID,
		Username:  m.Username,
		Amount:    in.Amount,
		Purpose:   in.Purpose,
		Status:    domain.LoanPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Loans().CreateLoan(ctx, loan); err != nil {
		return domain.Loan{}, err
	}

	slogx.FromContext(ctx).Info("loan requested",
		slog.String("loan_id", loan.ID),
		slog.Int64("amount", loan.Amount),
	)
	return loan, nil
}

// ListMine returns the user's loans across all groups.
func (s *LoanService) ListMine(ctx context.Context, userID string) ([]domain.Loan, error) {
	return s.Store.Loans().ListUserLoans(ctx, userID)
}

// List returns every loan, optionally filtered by status. Staff only.
func (s *LoanService) List(ctx context.Context, status string) ([]domain.Loan, error) {
	if status != "" && !validStatus(status) {
		return nil, fieldError("status", `Select a valid choice. `+status+` is not one of the available choices.`)
	}
	return s.Store.Loans().ListLoans(ctx, status)
}

// Repay settles one of the user's approved loans. Another member's loan is
// reported as missing.
func (s *LoanService) Repay(ctx context.Context, userID, loanID string) (domain.Loan, error) {
	if _, err := idx.Parse(loanID); err != nil {
		return domain.Loan{}, ErrNotFound
	}

	loan, err := s.Store.Loans().GetLoan(ctx, loanID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Loan{}, ErrNotFound
		}
		return domain.Loan{}, err
	}
	if loan.UserID != userID {
		return domain.Loan{}, ErrNotFound
	}
	if !domain.CanTransition(loan.Status, domain.LoanRepaid) {
		return domain.Loan{}, fieldError("status", "Only approved loans can be repaid.")
	}

	if err := s.Store.Loans().MarkLoanRepaid(ctx, loanID, time.Now().UTC()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost a race with another repayment.
			return domain.Loan{}, fieldError("status", "Only approved loans can be repaid.")
		}
		return domain.Loan{}, err
	}

	slogx.FromContext(ctx).Info("loan repaid", slog.String("loan_id", loanID))
	return s.Store.Loans().GetLoan(ctx, loanID)
}

// Decide approves or rejects a pending loan. Approval requires the group's
// available balance to cover the loan.
func (s *LoanService) Decide(ctx context.Context, staffID, loanID, status string) (domain.Loan, error) {
	if status != domain.LoanApproved && status != domain.LoanRejected {
		return domain.Loan{}, fieldError("status", `"`+status+`" is not a valid choice.`)
	}
	if _, err := idx.Parse(loanID); err != nil {
		return domain.Loan{}, ErrNotFound
	}

	var decided domain.Loan
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		loan, err := tx.Loans().GetLoan(ctx, loanID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !domain.CanTransition(loan.Status, status) {
			return fieldError("status", "Only pending loans can be decided.")
		}

		if status == domain.LoanApproved {
			balance, err := tx.Groups().GetBalance(ctx, loan.GroupID)
			if err != nil {
				return err
			}
			if loan.Amount > balance.Available() {
				return fieldError("amount", msgNoFunds)
			}
		}

		if err := tx.Loans().DecideLoan(ctx, loanID, status, staffID, time.Now().UTC()); err != nil {
			return err
		}
		decided, err = tx.Loans().GetLoan(ctx, loanID)
		return err
	})
	if err != nil {
		return domain.Loan{}, err
	}

	slogx.FromContext(ctx).Info("loan decided",
		slog.String("loan_id", loanID),
		slog.String("status", status),
	)
	return decided, nil
}

func validStatus(status string) bool {
	switch status {
	case domain.LoanPending, domain.LoanApproved, domain.LoanRejected, domain.LoanRepaid:
		return true
	}
	return false
}
