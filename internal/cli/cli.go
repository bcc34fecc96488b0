// Package cli implements the chama command line client. Sessions are kept in
// a credentials file so they survive between invocations.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/kikundi/chama/pkg/chamasdk"
	"github.com/kikundi/chama/pkg/slogx"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

var errUsage = errors.New("usage")

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, c *CLI, args []string) error
}

var commands = map[string]command{
	"login":         {"login [-username name]", "sign in and store the session", runLogin},
	"register":      {"register [-username name] [-email addr]", "create an account and sign in", runRegister},
	"logout":        {"logout", "revoke and forget the stored session", runLogout},
	"whoami":        {"whoami", "show the signed-in user", runWhoami},
	"groups":        {"groups [-all]", "list your groups, or every group with -all", runGroups},
	"group":         {"group <id>", "show a group, its members and progress", runGroup},
	"create-group":  {"create-group [-description text] [-target amount] <name>", "start a new group", runCreateGroup},
	"join":          {"join <group>", "join a group", runJoin},
	"contribute":    {"contribute [-note text] <group> <amount>", "pay into a group", runContribute},
	"contributions": {"contributions <group>", "list a group's contributions", runContributions},
	"loans":         {"loans", "list your loans", runLoans},
	"apply-loan":    {"apply-loan <group> <amount> <purpose...>", "ask a group for a loan", runApplyLoan},
	"repay":         {"repay <loan>", "mark an approved loan as repaid", runRepay},
	"investments":   {"investments <group>", "list a group's investments", runInvestments},
	"invest":        {"invest [-return amount] <group> <amount> <name...>", "record a group investment (group admins)", runInvest},
	"dashboard":     {"dashboard", "summarise your groups and loans", runDashboard},
	"users":         {"users", "list all users (staff)", runUsers},
	"pending":       {"pending", "list loans waiting for a decision (staff)", runPending},
	"decide":        {"decide <loan> approved|rejected", "approve or reject a loan (staff)", runDecide},
}

// CLI holds what every command needs.
type CLI struct {
	cfg     Config
	client  *chamasdk.SDKClient
	store   chamasdk.CredentialStore
	session *chamasdk.Session
	print   *printer
	in      *bufio.Reader
	logger  *slog.Logger

	signedOut bool
}

// New builds a CLI talking to cfg.BaseURL with the session stored in
// cfg.CredentialsFile.
func New(cfg Config, in io.Reader, out, errOut io.Writer) (*CLI, error) {
	logger := slogx.New(slogx.Config{
		Service: "chama-cli",
		Level:   cfg.LogLevel,
		Format:  "text",
		Output:  errOut,
	})

	client := chamasdk.NewSDKClient(cfg.BaseURL)
	client.HTTPClient.Timeout = cfg.Timeout
	client.Logger = logger

	c := &CLI{
		cfg:    cfg,
		client: client,
		store:  chamasdk.NewFileStore(cfg.CredentialsFile),
		print:  newPrinter(out, errOut),
		in:     bufio.NewReader(in),
		logger: logger,
	}

	session, err := client.NewSession(c.sessionOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	c.session = session

	return c, nil
}

func (c *CLI) sessionOptions() []chamasdk.SessionOption {
	return []chamasdk.SessionOption{
		chamasdk.WithCredentialStore(c.store),
		chamasdk.WithLogger(c.logger),
		chamasdk.WithUnauthenticatedHandler(func() { c.signedOut = true }),
	}
}

// Run executes the command named by args[0] and returns the exit code.
func (c *CLI) Run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		c.usage()
		if len(args) == 0 {
			return ExitUsage
		}
		return ExitOK
	}

	cmd, ok := commands[args[0]]
	if !ok {
		c.print.Error(fmt.Errorf("unknown command %q", args[0]))
		c.usage()
		return ExitUsage
	}

	err := cmd.run(ctx, c, args[1:])
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp):
		c.print.Hint("usage: chama %s", cmd.usage)
		return ExitUsage
	case errors.Is(err, chamasdk.ErrUnauthenticated):
		c.print.Error(err)
		if c.signedOut || !c.session.Authenticated() {
			c.print.Hint("You are signed out. Run `chama login` to continue.")
		}
		return ExitError
	default:
		c.print.Error(err)
		return ExitError
	}
}

func (c *CLI) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	c.print.Heading("usage: chama [-config path] <command> [args]")
	c.print.Line("")
	for _, name := range names {
		c.print.Line("  %-58s %s", commands[name].usage, commands[name].help)
	}
}

// prompt reads one line from the input, for values not given as flags.
func (c *CLI) prompt(label string) (string, error) {
	fmt.Fprintf(c.print.err, "%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// flags returns a FlagSet that reports errors instead of exiting.
func (c *CLI) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.print.err)
	return fs
}
