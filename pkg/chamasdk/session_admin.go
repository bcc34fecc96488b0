package chamasdk

import (
	"context"
	"net/http"
	"net/url"
)

// Admin operations - require a staff account

// AdminListUsers lists every account.
func (s *Session) AdminListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.get(ctx, "/api/admin/users/", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminListLoans lists loans in every group, optionally filtered by status.
func (s *Session) AdminListLoans(ctx context.Context, status string) ([]Loan, error) {
	req := &Request{Method: http.MethodGet, Path: "/api/admin/loans/"}
	if status != "" {
		req.Query = url.Values{"status": {status}}
	}

	resp, err := s.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var loans []Loan
	if err := decodeJSON(resp, &loans, http.StatusOK); err != nil {
		return nil, err
	}
	return loans, nil
}

// DecideLoan approves or rejects a pending loan.
func (s *Session) DecideLoan(ctx context.Context, loanID, status string) (*Loan, error) {
	var loan Loan
	path := "/api/admin/loans/" + url.PathEscape(loanID) + "/decision/"
	err := s.doJSON(ctx, http.MethodPost, path, LoanDecisionRequest{Status: status}, &loan, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}
