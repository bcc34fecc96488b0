package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// printer writes human readable output. Colour is switched off by
// fatih/color itself when the output is not a terminal or NO_COLOR is set.
type printer struct {
	out io.Writer
	err io.Writer

	heading *color.Color
	ok      *color.Color
	warn    *color.Color
	fail    *color.Color
	muted   *color.Color
}

func newPrinter(out, errOut io.Writer) *printer {
	return &printer{
		out:     out,
		err:     errOut,
		heading: color.New(color.Bold),
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
		muted:   color.New(color.Faint),
	}
}

func (p *printer) Heading(format string, args ...any) {
	p.heading.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Success(format string, args ...any) {
	p.ok.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Hint(format string, args ...any) {
	p.warn.Fprintf(p.err, format+"\n", args...)
}

func (p *printer) Error(err error) {
	p.fail.Fprint(p.err, "error: ")
	fmt.Fprintln(p.err, err)
}

// Table writes tab separated rows aligned into columns.
func (p *printer) Table(header []string, rows [][]string) {
	if len(rows) == 0 {
		p.muted.Fprintln(p.out, "(none)")
		return
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(header, "\t")))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// status colours a loan status.
func (p *printer) status(s string) string {
	switch s {
	case "approved", "repaid":
		return p.ok.Sprint(s)
	case "pending":
		return p.warn.Sprint(s)
	case "rejected":
		return p.fail.Sprint(s)
	default:
		return s
	}
}

// formatAmount renders minor units as a decimal with two places.
func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// maxAmountUnits keeps units*100 + 99 inside int64.
const maxAmountUnits = (math.MaxInt64 - 99) / 100

// parseAmount reads "1500", "1500.5" or "1500.50" into minor units.
func parseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	whole, frac, hasFrac := strings.Cut(s, ".")
	if !isDigits(whole) || (hasFrac && (!isDigits(frac) || len(frac) > 2)) {
		return 0, fmt.Errorf("invalid amount %q: use a number with at most two decimals", s)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > maxAmountUnits {
		return 0, fmt.Errorf("invalid amount %q: too large", s)
	}

	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}

	return units*100 + cents, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
