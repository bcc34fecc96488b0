package http

import (
	"net/http"

	"github.com/kikundi/chama/internal/api/service"
	"github.com/kikundi/chama/pkg/chamasdk"
	"github.com/kikundi/chama/pkg/httpx"
)

type ContributionsHandler struct {
	ContributionService *service.ContributionService
}

// HandleList lists a group's contributions.
//
//	@Summary		List contributions
//	@Tags			Contributions
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Group ID"
//	@Success		200	{array}		chamasdk.Contribution
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Failure		403	{object}	httpx.ErrorBody	"Not a member"
//	@Failure		404	{object}	httpx.ErrorBody	"Unknown group"
//	@Router			/api/groups/{id}/contributions/ [get].
func (h *ContributionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.ContributionService.List(r.Context(), principal(r).UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(list, toContribution))
}

// HandleCreate records a contribution.
//
//	@Summary		Contribute
//	@Tags			Contributions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chamasdk.CreateContributionRequest	true	"Contribution"
//	@Success		201		{object}	chamasdk.Contribution
//	@Failure		400		{object}	map[string][]string	"Field errors"
//	@Failure		401		{object}	httpx.ErrorBody		"Invalid or missing access token"
//	@Failure		403		{object}	httpx.ErrorBody		"Not a member"
//	@Router			/api/contributions/ [post].
func (h *ContributionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req chamasdk.CreateContributionRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.ContributionService.Create(r.Context(), principal(r).UserID, service.CreateContributionInput{
		GroupID: req.GroupID,
		Amount:  req.Amount,
		Note:    req.Note,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toContribution(c))
}

type LoansHandler struct {
	LoanService *service.LoanService
}

// HandleListMine lists the caller's loans.
//
//	@Summary		List my loans
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		chamasdk.Loan
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Router			/api/loans/ [get].
func (h *LoansHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	loans, err := h.LoanService.ListMine(r.Context(), principal(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(loans, toLoan))
}

// HandleApply files a loan request.
//
//	@Summary		Apply for a loan
//	@Tags			Loans
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chamasdk.ApplyLoanRequest	true	"Loan request"
//	@Success		201		{object}	chamasdk.Loan
//	@Failure		400		{object}	map[string][]string	"Field errors"
//	@Failure		401		{object}	httpx.ErrorBody		"Invalid or missing access token"
//	@Failure		403		{object}	httpx.ErrorBody		"Not a member"
//	@Router			/api/loans/ [post].
func (h *LoansHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	var req chamasdk.ApplyLoanRequest
	if !decode(w, r, &req) {
		return
	}

	loan, err := h.LoanService.Apply(r.Context(), principal(r).UserID, service.ApplyLoanInput{
		GroupID: req.GroupID,
		Amount:  req.Amount,
		Purpose: req.Purpose,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toLoan(loan))
}

// HandleRepay settles an approved loan.
//
//	@Summary		Repay a loan
//	@Tags			Loans
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Loan ID"
//	@Success		200	{object}	chamasdk.Loan
//	@Failure		400	{object}	map[string][]string	"Loan is not approved"
//	@Failure		401	{object}	httpx.ErrorBody		"Invalid or missing access token"
//	@Failure		404	{object}	httpx.ErrorBody		"Unknown loan"
//	@Router			/api/loans/{id}/repay/ [post].
func (h *LoansHandler) HandleRepay(w http.ResponseWriter, r *http.Request) {
	loan, err := h.LoanService.Repay(r.Context(), principal(r).UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLoan(loan))
}

// HandleAdminList lists loans across every group.
//
//	@Summary		List all loans
//	@Description	Staff only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			status	query		string	false	"pending, approved, rejected or repaid"
//	@Success		200		{array}		chamasdk.Loan
//	@Failure		400		{object}	map[string][]string	"Unknown status"
//	@Failure		401		{object}	httpx.ErrorBody		"Invalid or missing access token"
//	@Failure		403		{object}	httpx.ErrorBody		"Not staff"
//	@Router			/api/admin/loans/ [get].
func (h *LoansHandler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	loans, err := h.LoanService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(loans, toLoan))
}

// HandleDecide approves or rejects a pending loan.
//
//	@Summary		Decide a loan
//	@Description	Staff only. Approval fails when the group's available balance cannot cover the loan.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Loan ID"
//	@Param			request	body		chamasdk.LoanDecisionRequest	true	"Decision"
//	@Success		200		{object}	chamasdk.Loan
//	@Failure		400		{object}	map[string][]string	"Invalid decision or insufficient funds"
//	@Failure		401		{object}	httpx.ErrorBody		"Invalid or missing access token"
//	@Failure		403		{object}	httpx.ErrorBody		"Not staff"
//	@Failure		404		{object}	httpx.ErrorBody		"Unknown loan"
//	@Router			/api/admin/loans/{id}/decision/ [post].
func (h *LoansHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	var req chamasdk.LoanDecisionRequest
	if !decode(w, r, &req) {
		return
	}

	loan, err := h.LoanService.Decide(r.Context(), principal(r).UserID, r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLoan(loan))
}

type InvestmentsHandler struct {
	InvestmentService *service.InvestmentService
}

// HandleList lists a group's investments.
//
//	@Summary		List investments
//	@Tags			Investments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Group ID"
//	@Success		200	{array}		chamasdk.Investment
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Failure		403	{object}	httpx.ErrorBody	"Not a member"
//	@Failure		404	{object}	httpx.ErrorBody	"Unknown group"
//	@Router			/api/groups/{id}/investments/ [get].
func (h *InvestmentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.InvestmentService.List(r.Context(), principal(r).UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(list, toInvestment))
}

// HandleCreate records an investment.
//
//	@Summary		Invest
//	@Description	Group admins only, up to the group's available balance.
//	@Tags			Investments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		chamasdk.CreateInvestmentRequest	true	"Investment"
//	@Success		201		{object}	chamasdk.Investment
//	@Failure		400		{object}	map[string][]string	"Field errors or insufficient funds"
//	@Failure		401		{object}	httpx.ErrorBody		"Invalid or missing access token"
//	@Failure		403		{object}	httpx.ErrorBody		"Not a group admin"
//	@Router			/api/investments/ [post].
func (h *InvestmentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req chamasdk.CreateInvestmentRequest
	if !decode(w, r, &req) {
		return
	}

	inv, err := h.InvestmentService.Create(r.Context(), principal(r).UserID, service.CreateInvestmentInput{
		GroupID:        req.GroupID,
		Name:           req.Name,
		Amount:         req.Amount,
		ExpectedReturn: req.ExpectedReturn,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toInvestment(inv))
}
