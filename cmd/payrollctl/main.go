package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kazini-payroll/internal/gateway"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	fake := flag.Bool("fake", false, "Use the in-memory gateway instead of a server")
	baseURL := flag.String("url", os.Getenv("PAYROLL_API_URL"), "API base url, e.g. http://localhost:3000/api/v1")
	token := flag.String("token", os.Getenv("PAYROLL_SESSION_TOKEN"), "Session token")
	timeout := flag.Duration("timeout", 30*time.Second, "Request timeout")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Usage = usage
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	var gw gateway.Gateway
	if *fake {
		gw = gateway.NewMemoryGateway()
		logger.Debug("using in-memory gateway")
	} else {
		httpGW, err := gateway.NewHTTPGateway(*baseURL, *token, *timeout)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		gw = httpGW
		logger.Debug("using http gateway", zap.String("url", *baseURL))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, gw, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: payrollctl [flags] <command> [args]

Commands:
  summary                         preview the open payroll cycle
  employees                       list pay records
  add-employee -name -bank -account -amount
  bank-codes                      list supported banks
  config                          show payroll configuration
  set-config -fee-bps -pay-day [-nhif -nssf -housing-levy -pensionable]
  process [-run-date YYYY-MM-DD]  freeze the open cycle
  cycles [-status STATUS]         list payroll cycles
  disburse <cycle-id>             pay out a processed cycle
  report [-format xlsx|pdf] [-out FILE] <cycle-id>
  wallet                          show balance and recent transactions
  fund -amount -code              raise an M-PESA funding request and submit its code
  verify -reference -amount <request-id>
  rates                           show the current tax-rate set
  invalidate-rates                drop the server's cached rate set
  demo                            walk a full cycle (meant for -fake)

Flags:
`)
	flag.PrintDefaults()
}
