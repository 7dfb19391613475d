package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"kazini-payroll/internal/gateway"
	"kazini-payroll/internal/payrollcalc"
	"kazini-payroll/internal/payrollconfig"
	"kazini-payroll/internal/payrollcycle"
	"kazini-payroll/internal/payrollemployee"
	"kazini-payroll/internal/shared/apperror"
	"kazini-payroll/internal/wallet"

	"github.com/shopspring/decimal"
)

var errUsage = errors.New("unknown command, run payrollctl -h")

const demoMpesaCode = "DEMO000001"

type command func(ctx context.Context, gw gateway.Gateway, args []string, out io.Writer) error

var commands = map[string]command{
	"summary":          cmdSummary,
	"employees":        cmdEmployees,
	"add-employee":     cmdAddEmployee,
	"bank-codes":       cmdBankCodes,
	"config":           cmdConfig,
	"set-config":       cmdSetConfig,
	"process":          cmdProcess,
	"cycles":           cmdCycles,
	"disburse":         cmdDisburse,
	"report":           cmdReport,
	"wallet":           cmdWallet,
	"fund":             cmdFund,
	"verify":           cmdVerify,
	"rates":            cmdRates,
	"invalidate-rates": cmdInvalidateRates,
	"demo":             cmdDemo,
}

func run(ctx context.Context, gw gateway.Gateway, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return errUsage
	}
	return cmd(ctx, gw, args[1:], out)
}

func kes(cents int64) string {
	return payrollcalc.FromCents(cents).StringFixed(2)
}

// parseKES turns a positive amount typed in shillings, with at most two
// decimals, into cents.
func parseKES(raw string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number", raw)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount %q must be greater than zero", raw)
	}
	if !d.Equal(d.Round(2)) {
		return 0, fmt.Errorf("amount %q has more than two decimals", raw)
	}
	return payrollcalc.ToCents(d), nil
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func positional(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s takes exactly one %s", fs.Name(), what)
	}
	return fs.Arg(0), nil
}

func cmdSummary(ctx context.Context, gw gateway.Gateway, _ []string, out io.Writer) error {
	s, err := gw.GetSummary(ctx)
	if err != nil {
		return err
	}
	if s.Notice != nil {
		fmt.Fprintln(out, s.Notice.Message)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMPLOYEE\tGROSS\tPAYE\tSTATUTORY\tNET\tFEE")
	for _, item := range s.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.FullName, kes(item.GrossPay), kes(item.PayeTax), kes(item.StatutoryDeductions), kes(item.NetPay), kes(item.ServiceFee))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nEmployees: %d  Tax year: %d (v%d)\n", s.EmployeeCount, s.TaxYear, s.RateSetVersion)
	printTotals(out, *s.Totals)
	return nil
}

func printTotals(out io.Writer, t payrollcycle.Totals) {
	fmt.Fprintf(out, "Gross pay:   %s\n", kes(t.TotalGrossPay))
	fmt.Fprintf(out, "PAYE:        %s\n", kes(t.TotalPayeTax))
	fmt.Fprintf(out, "Statutory:   %s\n", kes(t.TotalStatutoryDeductions))
	fmt.Fprintf(out, "Net pay:     %s\n", kes(t.TotalNetPay))
	fmt.Fprintf(out, "Service fee: %s\n", kes(t.TotalKaziniHRFees))
	fmt.Fprintf(out, "Amount due:  %s\n", kes(t.TotalDisbursementAmount))
}

func cmdEmployees(ctx context.Context, gw gateway.Gateway, _ []string, out io.Writer) error {
	emps, err := gw.ListEmployees(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBANK\tACCOUNT\tGROSS\tACTIVE")
	for _, e := range emps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n", e.ID, e.FullName, e.BankCode, e.AccountNumber, kes(e.Amount), e.IsActive)
	}
	return tw.Flush()
}

func cmdAddEmployee(ctx context.Context, gw gateway.Gateway, args []string, out io.Writer) error {
	fs := newFlags("add-employee")
	name := fs.String("name", "", "full name")
	bank := fs.String("bank", "", "bank code")
	account := fs.String("account", "", "account number")
	amount := fs.String("amount", "", "monthly gross pay in KES")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cents, err := parseKES(*amount)
	if err != nil {
		return err
	}

	emp, err := gw.CreateEmployee(ctx, payrollemployee.CreateEmployeeRequest{
		FullName: *name, BankCode: *bank, AccountNumber: *account, Amount: cents,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added %s (%s)\n", emp.FullName, emp.ID)
	return nil
}

func cmdBankCodes(ctx context.Context, gw gateway.Gateway, _ []string, out io.Writer) error {
	banks, err := gw.ListBankCodes(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tACCOUNT FORMAT")
	for _, b := range banks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Code, b.Name, b.AccountPattern)
	}
	return tw.Flush()
}

func printConfig(out io.Writer, c payrollconfig.PayrollConfigResponse) {
	fmt.Fprintf(out, "Service fee:  %d bps\n", c.ServiceFeeRateBps)
	fmt.Fprintf(out, "Pay day:      %d\n", c.PayDay)
	fmt.Fprintf(out, "SHIF/NHIF:    %t\n", c.IncludeNhif)
	fmt.Fprintf(out, "NSSF:         %t\n", c.IncludeNssf)
	fmt.Fprintf(out, "Housing levy: %t\n", c.IncludeHousingLevy)
	fmt.Fprintf(out, "Pensionable:  %t\n", c.IsPensionable)
	if c.IsDefault {
		fmt.Fprintln(out, "(defaults, not saved yet)")
	}
}

func cmdConfig(ctx context.Context, gw gateway.Gateway, _ []string, out io.Writer) error {
	c, err := gw.GetPayrollConfig(ctx)
	if err != nil {
		return err
	}
	printConfig(out, c)
	return nil
}

func cmdSetConfig(ctx context.Context, gw gateway.Gateway, args []string, out io.Writer) error {
	fs := newFlags("set-config")
	req := payrollconfig.UpsertPayrollConfigRequest{}
	fs.IntVar(&req.ServiceFeeRateBps, "fee-bps", payrollconfig.DefaultServiceFeeBps, "service fee in basis points")
	fs.IntVar(&req.PayDay, "pay-day", payrollconfig.DefaultPayDay, "day of month")
	fs.BoolVar(&req.IncludeNhif, "nhif", false, "deduct SHIF/NHIF")
	fs.BoolVar(&req.IncludeNssf, "nssf", false, "deduct NSSF")
	fs.BoolVar(&req.IncludeHousingLevy, "housing-levy", false, "deduct housing levy")
	fs.BoolVar(&req.IsPensionable, "pensionable", false, "NSSF reduces taxable pay")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := gw.SavePayrollConfig(ctx, req)
	if err != nil {
		return err
	}
	printConfig(out, c)
	return nil
}

func printCycle(out io.Writer, c payrollcycle.CycleResponse) {
	count := "-"
	if c.CycleCount != nil {
		count = strconv.FormatInt(*c.CycleCount, 10)
	}
	fmt.Fprintf(out, "Cycle #%s %s [%s]\n", count, c.ID, c.Status)
	if c.Status != payrollcycle.StatusPending {
		printTotals(out, c.Totals)
	}
}

func cmdProcess(ctx context.Context, gw gateway.Gateway, args []string, out io.Writer) error {
	fs := newFlags("process")
	runDate := fs.String("run-date", "", "run date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resp, err := gw.Process(ctx, payrollcycle.ProcessRequest{RunDate: *runDate})
	if err != nil {
		return err
	}
	printCycle(out, resp.Cycle)
	fmt.Fprintf(out, "Next cycle: %s\n", resp.NextCycle.ID)
	return nil
}

func cmdCycles(ctx context.Context, gw gateway.Gateway, args []string, out io.Writer) error {
	fs := newFlags("cycles")
	status := fs.String("status", "", "PENDING, PROCESSED or COMPLETED")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cycles, err := gw.ListCycles(ctx, *status)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t#\tSTATUS\tEMPLOYEES\tAMOUNT DUE")
	for _, c := range cycles {
		count := "-"
		if c.CycleCount != nil {
			count = strconv.FormatInt(*c.CycleCount, 10)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.ID, count, c.Status, c.EmployeeCount, kes(c.TotalDisbursementAmount))
	}
	return tw.Flush()
}

func cmdDisburse(ctx context.Context, gw gateway.Gateway, args []string, out io.Writer) error {
	fs := newFlags("disburse")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := positional(fs, "cycle id")
	if err != nil {
		return err
	}

	c, err := gw.Disburse(ctx, id)
	if err != nil {
		if gateway.HasCode(err, apperror.CodeOutcomeUnknown) {
			fmt.Fprintf(out, "run `payrollctl cycles` and check cycle %s before retrying\n", id)
		}
		return err
	}
	printCycle(out, c)
	return nil
}

func cmdReport(ctx context.Context, gw gateway.Gateway, args []string, out io.Writer) error {
	fs := newFlags("report")
	format := fs.String("format", payrollcycle.FormatXLSX, "xlsx or pdf")
	path := fs.String("out", "", "output file, defaults to the server's filename")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := positional(fs, "cycle id")
	if err != nil {
		return err
	}

	rep, err := gw.Report(ctx, id, *format)
	if err != nil {
		return err
	}
	if *path == "" {
		*path = rep.Filename
	}
	if *path == "" {
		*path = "payroll-cycle-" + id + "." + *format
	}
	if err := os.WriteFile(*path, rep.Body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s (%d bytes)\n", *path, len(rep.Body))
	return nil
}

func cmdWallet(ctx context.Context, gw gateway.Gateway, _ []string, out io.Writer) error {
	w, err := gw.GetWallet(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Balance: %s %s\n", w.Currency, kes(w.Balance))

	txs, err := gw.ListTransactions(ctx)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tDIRECTION\tAMOUNT\tBALANCE\tREFERENCE")
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.CreatedAt, t.Direction, kes(t.Amount), kes(t.BalanceAfter), t.Reference)
	}
	return tw.Flush()
}

func cmdFund(ctx context.Context, gw gateway.Gateway, args []string, out io.Writer) error {
	fs := newFlags("fund")
	amount := fs.String("amount", "", "amount in KES")
	code := fs.String("code", "", "M-PESA transaction code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cents, err := parseKES(*amount)
	if err != nil {
		return err
	}

	fr, err := gw.CreateFundingRequest(ctx, wallet.CreateFundingRequest{Amount: cents, PaymentMethod: wallet.MethodMpesa})
	if err != nil {
		return err
	}
	if *code != "" {
		if fr, err = gw.SubmitMpesaProof(ctx, fr.ID, wallet.MpesaProofRequest{TransactionCode: *code}); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "funding request %s %s [%s]\n", fr.ID, fr.Reference, fr.Status)
	return nil
}

func cmdVerify(ctx context.Context, gw gateway.Gateway, args []string, out io.Writer) error {
	fs := newFlags("verify")
	reference := fs.String("reference", "", "reference or M-PESA code on the statement")
	amount := fs.String("amount", "", "amount on the statement in KES")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := positional(fs, "funding request id")
	if err != nil {
		return err
	}
	cents, err := parseKES(*amount)
	if err != nil {
		return err
	}

	fr, err := gw.VerifyFunding(ctx, id, wallet.VerifyFundingRequest{StatementReference: *reference, StatementAmount: cents})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "funding request %s [%s]\n", fr.ID, fr.Status)
	return nil
}

func cmdRates(ctx context.Context, gw gateway.Gateway, _ []string, out io.Writer) error {
	r, err := gw.CurrentTaxRates(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Tax year %d, version %d, effective %s\n\n", r.TaxYear, r.Version, r.EffectiveFrom)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tTO\tRATE")
	for _, b := range r.Bands {
		to := "and above"
		if b.MaxIncome != nil {
			to = kes(*b.MaxIncome)
		}
		fmt.Fprintf(tw, "%s\t%s\t%g%%\n", kes(b.MinIncome), to, b.RatePercent)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPersonal relief: %s\n", kes(r.PersonalRelief))
	fmt.Fprintf(out, "%s: %g%% (floor %s)\n", r.Health.Kind, r.Health.RatePercent, kes(r.Health.Floor))
	fmt.Fprintf(out, "NSSF: %g%% to %s, %g%% to %s\n", r.NSSF.Tier1RatePercent, kes(r.NSSF.Tier1Limit), r.NSSF.Tier2RatePercent, kes(r.NSSF.Tier2Limit))
	fmt.Fprintf(out, "Housing levy: %g%% employee, %g%% employer\n", r.HousingLevy.EmployeeRatePercent, r.HousingLevy.EmployerRatePercent)
	return nil
}

func cmdInvalidateRates(ctx context.Context, gw gateway.Gateway, _ []string, out io.Writer) error {
	if err := gw.InvalidateTaxRateCache(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "tax-rate cache invalidated")
	return nil
}

// cmdDemo seeds two employees, funds the wallet and takes one cycle from
// PENDING to COMPLETED.
func cmdDemo(ctx context.Context, gw gateway.Gateway, _ []string, out io.Writer) error {
	for _, e := range []payrollemployee.CreateEmployeeRequest{
		{FullName: "Wanjiku Kamau", BankCode: "68", AccountNumber: "0123456789012", Amount: 13300000},
		{FullName: "Otieno Odhiambo", BankCode: "01", AccountNumber: "1234567890", Amount: 4500000},
	} {
		if _, err := gw.CreateEmployee(ctx, e); err != nil {
			return err
		}
	}
	if err := cmdSummary(ctx, gw, nil, out); err != nil {
		return err
	}

	processed, err := gw.Process(ctx, payrollcycle.ProcessRequest{})
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printCycle(out, processed.Cycle)

	due := processed.Cycle.TotalDisbursementAmount
	fr, err := gw.CreateFundingRequest(ctx, wallet.CreateFundingRequest{Amount: due, PaymentMethod: wallet.MethodMpesa})
	if err != nil {
		return err
	}
	if _, err := gw.SubmitMpesaProof(ctx, fr.ID, wallet.MpesaProofRequest{TransactionCode: demoMpesaCode}); err != nil {
		return err
	}
	if _, err := gw.VerifyFunding(ctx, fr.ID, wallet.VerifyFundingRequest{StatementReference: demoMpesaCode, StatementAmount: due}); err != nil {
		return err
	}

	disbursed, err := gw.Disburse(ctx, processed.Cycle.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printCycle(out, disbursed)
	return nil
}
