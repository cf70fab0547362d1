package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/wekeepgrowing/institute-backend/pkg/logger"
	"github.com/wekeepgrowing/institute-backend/services/payment/checkout"
	"go.uber.org/zap"
)

func main() {
	var (
		sessionPath string
		admissionID string
		installment int
		scriptURL   string
		autoConfirm bool
		debug       bool
	)
	flag.StringVar(&sessionPath, "session", "session.yaml", "Path to session file")
	flag.StringVar(&admissionID, "admission", "", "Admission ID to pay for")
	flag.IntVar(&installment, "installment", 0, "Installment number to pay (0 pays the full pending amount)")
	flag.StringVar(&scriptURL, "script", "", "Gateway checkout script URL (defaults to the sandbox script; orders may switch it)")
	flag.BoolVar(&autoConfirm, "yes", false, "Confirm the checkout without prompting")
	flag.BoolVar(&debug, "debug", false, "Verbose logging")
	flag.Parse()

	if admissionID == "" {
		flag.Usage()
		os.Exit(2)
	}

	zapLogger, err := logger.NewZapLogger(loggerConfig(debug))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	session, err := checkout.LoadSession(sessionPath)
	if err != nil {
		zapLogger.Fatal("Failed to load session", zap.Error(err))
	}
	if scriptURL == "" {
		scriptURL = defaultScriptURL(session.BaseURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := checkout.NewAPIClient(session, nil)
	sandbox := checkout.NewSandboxCheckout(api)
	if !autoConfirm {
		sandbox.Confirm = confirm
	}

	controller := checkout.NewController(api, checkout.NewScriptLoader(scriptURL, nil), sandbox, checkout.ControllerConfig{
		AdmissionID: admissionID,
		Payer:       session.Payer,
		OnStateChange: func(from, to checkout.State) {
			zapLogger.Debug("Payment state changed", zap.String("from", string(from)), zap.String("to", string(to)))
		},
		OnSuccess: func(v *checkout.Verification) {
			fmt.Printf("Payment %s. Receipt: %s\n", v.Status, v.ReceiptNumber())
		},
	}, zapLogger)

	if err := controller.Mount(ctx); err != nil {
		zapLogger.Fatal("Payment page unavailable", zap.Error(err))
	}
	printSummary(controller.Details())

	if installment > 0 {
		_, err = controller.PayInstallment(ctx, installment)
	} else {
		_, err = controller.PayFull(ctx)
	}
	switch {
	case errors.Is(err, checkout.ErrCheckoutDismissed):
		fmt.Println("Payment cancelled.")
		return
	case err != nil:
		zapLogger.Fatal("Payment failed", zap.Error(err))
	}

	printSummary(controller.Details())
}

// loggerConfig logs to stderr so the payment summary on stdout stays readable.
func loggerConfig(debug bool) logger.Config {
	level := "info"
	if debug {
		level = "debug"
	}
	return logger.Config{
		Level:       level,
		Format:      "console",
		Output:      "stderr",
		Development: true,
	}
}

// defaultScriptURL is the service's own sandbox script. Orders that name a
// different checkout_script_url replace it before the checkout opens.
func defaultScriptURL(baseURL string) string {
	return baseURL + "/sandbox/checkout.js"
}

func confirm(opts checkout.CheckoutOptions) bool {
	fmt.Printf("%s: pay %s (%d minor units, %s) to %s? [y/N] ",
		opts.Description, opts.Currency, opts.AmountMinor, opts.OrderID, opts.MerchantName)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printSummary(d *checkout.AdmissionDetails) {
	if d == nil {
		return
	}
	a := d.Admission
	fmt.Printf("%s / %s  total %s %s  paid %s  pending %s\n",
		a.StudentName, a.CourseName, a.Currency, a.TotalFees.StringFixed(2),
		a.PaidAmount.StringFixed(2), a.PendingAmount.StringFixed(2))
	for _, inst := range d.Installments {
		due := ""
		if !inst.DueDate.IsZero() {
			due = inst.DueDate.Format("2006-01-02")
		}
		fmt.Printf("  #%d  %s  due %s  %s\n", inst.Number, inst.Amount.StringFixed(2), due, inst.Status)
	}
}
