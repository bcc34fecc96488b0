package chamasdk

import (
	"context"
	"net/http"
	"net/url"
)

// Money operations - contributions, loans and investments

// ============================================================================
// Contributions
// ============================================================================

// ListContributions returns a group's contributions, newest first.
func (s *Session) ListContributions(ctx context.Context, groupID string) ([]Contribution, error) {
	var contributions []Contribution
	if err := s.get(ctx, groupPath(groupID, "contributions/"), &contributions); err != nil {
		return nil, err
	}
	return contributions, nil
}

// CreateContribution records a payment into a group.
func (s *Session) CreateContribution(ctx context.Context, req CreateContributionRequest) (*Contribution, error) {
	var contribution Contribution
	if err := s.doJSON(ctx, http.MethodPost, "/api/contributions/", req, &contribution, http.StatusCreated); err != nil {
		return nil, err
	}
	return &contribution, nil
}

// ============================================================================
// Loans
// ============================================================================

// ListLoans returns the user's loans across all groups.
func (s *Session) ListLoans(ctx context.Context) ([]Loan, error) {
	var loans []Loan
	if err := s.get(ctx, "/api/loans/", &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// ApplyLoan submits a loan request for staff review.
func (s *Session) ApplyLoan(ctx context.Context, req ApplyLoanRequest) (*Loan, error) {
	var loan Loan
	if err := s.doJSON(ctx, http.MethodPost, "/api/loans/", req, &loan, http.StatusCreated); err != nil {
		return nil, err
	}
	return &loan, nil
}

// RepayLoan marks an approved loan as repaid.
func (s *Session) RepayLoan(ctx context.Context, loanID string) (*Loan, error) {
	var loan Loan
	path := "/api/loans/" + url.PathEscape(loanID) + "/repay/"
	if err := s.doJSON(ctx, http.MethodPost, path, nil, &loan, http.StatusOK); err != nil {
		return nil, err
	}
	return &loan, nil
}

// ============================================================================
// Investments
// ============================================================================

// ListInvestments returns a group's investments.
func (s *Session) ListInvestments(ctx context.Context, groupID string) ([]Investment, error) {
	var investments []Investment
	if err := s.get(ctx, groupPath(groupID, "investments/"), &investments); err != nil {
		return nil, err
	}
	return investments, nil
}

// CreateInvestment records an investment. Only group admins may do this.
func (s *Session) CreateInvestment(ctx context.Context, req CreateInvestmentRequest) (*Investment, error) {
	var investment Investment
	if err := s.doJSON(ctx, http.MethodPost, "/api/investments/", req, &investment, http.StatusCreated); err != nil {
		return nil, err
	}
	return &investment, nil
}
