package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kikundi/chama/pkg/chamasdk"
)

// ============================================================================
// Account
// ============================================================================

func runLogin(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("login")
	username := fs.String("username", "", "account name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errUsage
	}

	creds, err := c.askCredentials(*username)
	if err != nil {
		return err
	}

	session, err := c.client.Login(ctx, creds[0], creds[1], c.sessionOptions()...)
	if err != nil {
		return err
	}
	c.session = session

	c.print.Success("Signed in as %s.", creds[0])
	return nil
}

func runRegister(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("register")
	username := fs.String("username", "", "account name")
	email := fs.String("email", "", "optional email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errUsage
	}

	creds, err := c.askCredentials(*username)
	if err != nil {
		return err
	}

	session, err := c.client.Register(ctx, chamasdk.RegisterRequest{
		Username: creds[0],
		Email:    *email,
		Password: creds[1],
	}, c.sessionOptions()...)
	if err != nil {
		return err
	}
	c.session = session

	c.print.Success("Welcome, %s. You are signed in.", creds[0])
	return nil
}

// askCredentials prompts for whatever was not given on the command line.
func (c *CLI) askCredentials(username string) ([2]string, error) {
	var err error
	if username == "" {
		if username, err = c.prompt("Username"); err != nil {
			return [2]string{}, err
		}
	}
	password, err := c.prompt("Password")
	if err != nil {
		return [2]string{}, err
	}
	return [2]string{username, password}, nil
}

func runLogout(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	if !c.session.Authenticated() {
		c.print.Line("Not signed in.")
		return nil
	}
	if err := c.session.Logout(ctx); err != nil {
		return err
	}
	c.print.Success("Signed out.")
	return nil
}

func runWhoami(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	me, err := c.session.Me(ctx)
	if err != nil {
		return err
	}

	role := "member"
	if me.IsStaff {
		role = "staff"
	}
	c.print.Heading("%s", me.Username)
	c.print.Line("id:      %s", me.ID)
	if me.Email != "" {
		c.print.Line("email:   %s", me.Email)
	}
	c.print.Line("role:    %s", role)
	c.print.Line("joined:  %s", me.DateJoined.Format("2006-01-02"))
	return nil
}

// ============================================================================
// Groups
// ============================================================================

func runGroups(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("groups")
	all := fs.Bool("all", false, "list every group, not only yours")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errUsage
	}

	list := c.session.ListGroups
	if *all {
		list = c.session.BrowseGroups
	}
	groups, err := list(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.ID, g.Name, strconv.Itoa(g.MemberCount), formatAmount(g.TargetAmount)})
	}
	c.print.Table([]string{"id", "name", "members", "target"}, rows)
	return nil
}

func runGroup(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	group, err := c.session.GetGroup(ctx, args[0])
	if err != nil {
		return err
	}
	members, err := c.session.GroupMembers(ctx, group.ID)
	if err != nil {
		return err
	}
	contributions, err := c.session.ListContributions(ctx, group.ID)
	if err != nil {
		return err
	}
	stats := chamasdk.SummarizeGroup(*group, contributions)

	c.print.Heading("%s", group.Name)
	if group.Description != "" {
		c.print.Line("%s", group.Description)
	}
	c.print.Line("saved:   %s of %s (%.1f%%)", formatAmount(stats.Total), formatAmount(stats.Target), stats.ProgressPct)
	c.print.Line("paid in: %d contributions from %d members", stats.Count, stats.Contributors)
	c.print.Line("")

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{m.Username, m.Role, m.JoinedAt.Format("2006-01-02")})
	}
	c.print.Table([]string{"member", "role", "joined"}, rows)
	return nil
}

func runCreateGroup(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("create-group")
	description := fs.String("description", "", "what the group saves for")
	target := fs.String("target", "0", "savings target")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	amount, err := parseAmount(*target)
	if err != nil {
		return err
	}

	group, err := c.session.CreateGroup(ctx, chamasdk.CreateGroupRequest{
		Name:         strings.Join(fs.Args(), " "),
		Description:  *description,
		TargetAmount: amount,
	})
	if err != nil {
		return err
	}

	c.print.Success("Created %s (%s).", group.Name, group.ID)
	return nil
}

func runJoin(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	if _, err := c.session.JoinGroup(ctx, args[0]); err != nil {
		return err
	}
	c.print.Success("Joined group %s.", args[0])
	return nil
}

// ============================================================================
// Contributions
// ============================================================================

func runContribute(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("contribute")
	note := fs.String("note", "", "optional note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errUsage
	}

	amount, err := parseAmount(fs.Arg(1))
	if err != nil {
		return err
	}

	contribution, err := c.session.CreateContribution(ctx, chamasdk.CreateContributionRequest{
		GroupID: fs.Arg(0),
		Amount:  amount,
		Note:    *note,
	})
	if err != nil {
		return err
	}

	c.print.Success("Contributed %s.", formatAmount(contribution.Amount))
	return nil
}

func runContributions(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	contributions, err := c.session.ListContributions(ctx, args[0])
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(contributions))
	for _, ct := range contributions {
		rows = append(rows, []string{
			ct.CreatedAt.Format("2006-01-02"), ct.Username, formatAmount(ct.Amount), ct.Note,
		})
	}
	c.print.Table([]string{"date", "member", "amount", "note"}, rows)
	return nil
}

// ============================================================================
// Loans
// ============================================================================

func runLoans(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	loans, err := c.session.ListLoans(ctx)
	if err != nil {
		return err
	}
	c.loanTable(loans)

	stats := chamasdk.SummarizeLoans(loans)
	if stats.Outstanding > 0 {
		c.print.Line("")
		c.print.Line("outstanding: %s", formatAmount(stats.Outstanding))
	}
	return nil
}

func runApplyLoan(ctx context.Context, c *CLI, args []string) error {
	if len(args) < 3 {
		return errUsage
	}

	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	loan, err := c.session.ApplyLoan(ctx, chamasdk.ApplyLoanRequest{
		GroupID: args[0],
		Amount:  amount,
		Purpose: strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}

	c.print.Success("Loan %s for %s is %s.", loan.ID, formatAmount(loan.Amount), loan.Status)
	return nil
}

func runRepay(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	loan, err := c.session.RepayLoan(ctx, args[0])
	if err != nil {
		return err
	}
	c.print.Success("Loan %s is %s.", loan.ID, loan.Status)
	return nil
}

func (c *CLI) loanTable(loans []chamasdk.Loan) {
	rows := make([][]string, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, []string{
			l.ID, l.Username, formatAmount(l.Amount), c.print.status(l.Status), l.Purpose,
		})
	}
	c.print.Table([]string{"id", "member", "amount", "status", "purpose"}, rows)
}

// ============================================================================
// Investments
// ============================================================================

func runInvestments(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	investments, err := c.session.ListInvestments(ctx, args[0])
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(investments))
	for _, inv := range investments {
		rows = append(rows, []string{
			inv.CreatedAt.Format("2006-01-02"), inv.Name, formatAmount(inv.Amount), formatAmount(inv.ExpectedReturn),
		})
	}
	c.print.Table([]string{"date", "name", "amount", "expected return"}, rows)
	return nil
}

func runInvest(ctx context.Context, c *CLI, args []string) error {
	fs := c.flags("invest")
	expected := fs.String("return", "0", "expected return")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return errUsage
	}

	amount, err := parseAmount(fs.Arg(1))
	if err != nil {
		return err
	}
	ret, err := parseAmount(*expected)
	if err != nil {
		return err
	}

	inv, err := c.session.CreateInvestment(ctx, chamasdk.CreateInvestmentRequest{
		GroupID:        fs.Arg(0),
		Name:           strings.Join(fs.Args()[2:], " "),
		Amount:         amount,
		ExpectedReturn: ret,
	})
	if err != nil {
		return err
	}

	c.print.Success("Invested %s in %s.", formatAmount(inv.Amount), inv.Name)
	return nil
}

// ============================================================================
// Dashboard
// ============================================================================

func runDashboard(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	dash, err := c.session.Dashboard(ctx)
	if err != nil {
		return err
	}

	c.print.Heading("Hello, %s", dash.User.Username)
	c.print.Line("")

	rows := make([][]string, 0, len(dash.Groups))
	for _, g := range dash.Groups {
		rows = append(rows, []string{
			g.GroupID, formatAmount(g.Total), formatAmount(g.Target),
			fmt.Sprintf("%.1f%%", g.ProgressPct), strconv.Itoa(g.Contributors),
		})
	}
	c.print.Table([]string{"group", "saved", "target", "progress", "contributors"}, rows)

	c.print.Line("")
	c.print.Line("loans: %s outstanding, %d pending, %d repaid",
		formatAmount(dash.Loans.Outstanding), dash.Loans.Pending, dash.Loans.Repaid)
	return nil
}

// ============================================================================
// Staff
// ============================================================================

func runUsers(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	users, err := c.session.AdminListUsers(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Username, u.Email, strconv.FormatBool(u.IsStaff)})
	}
	c.print.Table([]string{"id", "username", "email", "staff"}, rows)
	return nil
}

func runPending(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 0 {
		return errUsage
	}

	loans, err := c.session.AdminListLoans(ctx, chamasdk.LoanPending)
	if err != nil {
		return err
	}
	c.loanTable(loans)
	return nil
}

func runDecide(ctx context.Context, c *CLI, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	status := args[1]
	if status != chamasdk.LoanApproved && status != chamasdk.LoanRejected {
		return errUsage
	}

	loan, err := c.session.DecideLoan(ctx, args[0], status)
	if err != nil {
		return err
	}
	c.print.Success("Loan %s is %s.", loan.ID, c.print.status(loan.Status))
	return nil
}
