package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
	"go.uber.org/zap"
)

type State string

const (
	StateIdle           State = "IDLE"
	StateGatewayLoading State = "GATEWAY_LOADING"
	StateReady          State = "READY"
	StateOrderRequested State = "ORDER_REQUESTED"
	StateCheckoutOpen   State = "CHECKOUT_OPEN"
	StateVerifying      State = "VERIFYING"
	StateSuccess        State = "SUCCESS"
	StateFailed         State = "FAILED"
	StateCancelled      State = "CANCELLED"
	StateUnavailable    State = "UNAVAILABLE"
)

var (
	// ErrPaymentInProgress rejects a pay action while another attempt for the admission is running
	ErrPaymentInProgress = errors.New("a payment for this admission is already in progress")
	ErrNotReady          = errors.New("payment controller is not ready")
)

// PaymentAPI is the subset of the service API the controller drives
type PaymentAPI interface {
	GetAdmission(ctx context.Context, admissionID string) (*AdmissionDetails, error)
	CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error)
	VerifyPayment(ctx context.Context, req *VerifyRequest) (*Verification, error)
}

type GatewayLoader interface {
	Load(ctx context.Context) error
	// Use makes ref the script for the next checkout. An empty ref keeps the loaded one.
	Use(ctx context.Context, ref string) error
}

// AttemptGuard tracks admissions with a payment attempt in flight.
// Controllers sharing one guard never run two attempts for the same admission.
type AttemptGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewAttemptGuard() *AttemptGuard {
	return &AttemptGuard{active: make(map[string]struct{})}
}

func (g *AttemptGuard) acquire(admissionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.active[admissionID]; ok {
		return false
	}
	g.active[admissionID] = struct{}{}
	return true
}

func (g *AttemptGuard) release(admissionID string) {
	g.mu.Lock()
	delete(g.active, admissionID)
	g.mu.Unlock()
}

type ControllerConfig struct {
	AdmissionID string
	Payer       Payer
	Guard       *AttemptGuard

	// OnStateChange sees every transition, in order. It runs under the
	// controller lock and must not call back into the controller.
	OnStateChange func(from, to State)
	// OnSuccess runs after a verified payment has been applied to the local view.
	OnSuccess func(*Verification)
}

// Controller drives payment attempts for one admission
type Controller struct {
	api      PaymentAPI
	loader   GatewayLoader
	checkout Checkout
	cfg      ControllerConfig
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	state   State
	details *AdmissionDetails
}

func NewController(api PaymentAPI, loader GatewayLoader, checkout Checkout, cfg ControllerConfig, logger *zap.Logger) *Controller {
	if cfg.Guard == nil {
		cfg.Guard = NewAttemptGuard()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		api:      api,
		loader:   loader,
		checkout: checkout,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		state:    StateIdle,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Details returns a copy of the local admission view.
func (c *Controller) Details() *AdmissionDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.details == nil {
		return nil
	}
	d := *c.details
	d.Installments = append([]Installment(nil), c.details.Installments...)
	return &d
}

// Mount loads the gateway script and the admission view. A script failure
// leaves the controller UNAVAILABLE for good.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.setStateLocked(StateGatewayLoading)
	c.mu.Unlock()

	if err := c.loader.Load(ctx); err != nil {
		c.logger.Error("Gateway script failed to load", zap.Error(err))
		c.transition(StateUnavailable)
		return err
	}

	details, err := c.api.GetAdmission(ctx, c.cfg.AdmissionID)
	if err != nil {
		c.transition(StateIdle)
		return fmt.Errorf("failed to load admission: %w", err)
	}

	c.mu.Lock()
	c.details = details
	c.setStateLocked(StateReady)
	c.mu.Unlock()
	return nil
}

// PayFull pays the admission's pending balance in one payment.
func (c *Controller) PayFull(ctx context.Context) (*Verification, error) {
	return c.pay(ctx, nil)
}

// PayInstallment pays installment n of an EMI admission.
func (c *Controller) PayInstallment(ctx context.Context, n int) (*Verification, error) {
	return c.pay(ctx, &n)
}

func (c *Controller) pay(ctx context.Context, installment *int) (*Verification, error) {
	amount, description, err := c.begin(installment)
	if err != nil {
		return nil, err
	}
	defer c.cfg.Guard.release(c.cfg.AdmissionID)

	order, err := c.api.CreateOrder(ctx, &OrderRequest{
		AdmissionID:       c.cfg.AdmissionID,
		Amount:            amount,
		InstallmentNumber: installment,
	})
	if err != nil {
		c.logger.Warn("Order creation failed", zap.String("admission_id", c.cfg.AdmissionID), zap.Error(err))
		c.fail()
		return nil, err
	}

	if err := c.loader.Use(ctx, order.CheckoutScriptURL); err != nil {
		c.logger.Error("Order's gateway script failed to load",
			zap.String("order_id", order.OrderID),
			zap.String("script_url", order.CheckoutScriptURL),
			zap.Error(err))
		c.fail()
		return nil, err
	}

	c.transition(StateCheckoutOpen)
	if order.Description != "" {
		description = order.Description
	}
	prefill := c.cfg.Payer
	if prefill.Name == "" && prefill.Email == "" {
		prefill = order.Prefill
	}
	result, err := c.checkout.Open(ctx, CheckoutOptions{
		KeyID:        order.KeyID,
		OrderID:      order.OrderID,
		AmountMinor:  order.AmountMinor,
		Currency:     order.Currency,
		MerchantName: order.MerchantName,
		Description:  description,
		Prefill:      prefill,
	})
	if errors.Is(err, ErrCheckoutDismissed) {
		c.transition(StateCancelled)
		c.transition(StateReady)
		return nil, err
	}
	if err != nil {
		c.logger.Warn("Checkout failed", zap.String("order_id", order.OrderID), zap.Error(err))
		c.fail()
		return nil, err
	}

	c.transition(StateVerifying)
	verification, err := c.api.VerifyPayment(ctx, &VerifyRequest{
		OrderID:           result.OrderID,
		PaymentID:         result.PaymentID,
		Signature:         result.Signature,
		AdmissionID:       c.cfg.AdmissionID,
		Amount:            amount,
		InstallmentNumber: installment,
		GatewayPayload:    result.Payload,
	})
	if err != nil {
		c.logger.Warn("Payment verification failed",
			zap.String("order_id", result.OrderID),
			zap.String("payment_id", result.PaymentID),
			zap.Error(err))
		c.fail()
		return nil, err
	}

	c.mu.Lock()
	c.applyLocked(verification, amount, installment)
	c.setStateLocked(StateSuccess)
	c.mu.Unlock()

	if c.cfg.OnSuccess != nil {
		c.cfg.OnSuccess(verification)
	}
	return verification, nil
}

// begin checks the controller can start an attempt and moves it to ORDER_REQUESTED.
func (c *Controller) begin(installment *int) (decimal.Decimal, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateReady, StateSuccess:
	case StateOrderRequested, StateCheckoutOpen, StateVerifying:
		return decimal.Zero, "", ErrPaymentInProgress
	case StateUnavailable:
		return decimal.Zero, "", apperrors.NewAppError(apperrors.ErrGatewayUnavailable, "payment gateway unavailable", nil)
	default:
		return decimal.Zero, "", ErrNotReady
	}

	amount, description, err := c.amountLocked(installment)
	if err != nil {
		return decimal.Zero, "", err
	}

	if !c.cfg.Guard.acquire(c.cfg.AdmissionID) {
		return decimal.Zero, "", ErrPaymentInProgress
	}
	c.setStateLocked(StateOrderRequested)
	return amount, description, nil
}

func (c *Controller) amountLocked(installment *int) (decimal.Decimal, string, error) {
	adm := c.details.Admission
	if installment == nil {
		if adm.IsEMI() {
			return decimal.Zero, "", apperrors.NewAppError(apperrors.ErrInvalidArgument, "installment number is required for an installment plan", nil)
		}
		if !adm.PendingAmount.IsPositive() {
			return decimal.Zero, "", apperrors.NewAppError(apperrors.ErrAlreadyPaid, "admission is fully paid", nil)
		}
		return adm.PendingAmount, fmt.Sprintf("%s fees", adm.CourseName), nil
	}

	if !adm.IsEMI() {
		return decimal.Zero, "", apperrors.NewAppError(apperrors.ErrInvalidArgument, "admission is not on an installment plan", nil)
	}
	for _, inst := range c.details.Installments {
		if inst.Number != *installment {
			continue
		}
		if inst.IsPaid() {
			return decimal.Zero, "", apperrors.NewAppError(apperrors.ErrAlreadyPaid,
				fmt.Sprintf("installment %d is already paid", inst.Number), nil)
		}
		return inst.Amount, fmt.Sprintf("%s installment %d", adm.CourseName, inst.Number), nil
	}
	return decimal.Zero, "", apperrors.NewAppError(apperrors.ErrNotFound,
		fmt.Sprintf("installment %d not found", *installment), nil)
}

// applyLocked updates the local view right after a verified payment, then
// takes the server's admission totals when the response carries them.
func (c *Controller) applyLocked(v *Verification, amount decimal.Decimal, installment *int) {
	if v.Status == "verified" {
		adm := &c.details.Admission
		adm.PaidAmount = adm.PaidAmount.Add(amount)
		adm.PendingAmount = decimal.Max(adm.PendingAmount.Sub(amount), decimal.Zero)

		if installment != nil {
			now := c.now()
			receipt := v.ReceiptNumber()
			for i := range c.details.Installments {
				inst := &c.details.Installments[i]
				if inst.Number == *installment {
					inst.Status = "PAID"
					inst.PaidDate = &now
					if receipt != "" {
						inst.ReceiptNumber = &receipt
					}
				}
			}
		}
	}

	if v.Admission.ID != "" {
		c.details.Admission = v.Admission
	}
	if v.Installment != nil {
		for i := range c.details.Installments {
			if c.details.Installments[i].Number == v.Installment.Number {
				c.details.Installments[i] = *v.Installment
			}
		}
	}
}

// fail surfaces FAILED and returns to READY so the payer can retry.
func (c *Controller) fail() {
	c.transition(StateFailed)
	c.transition(StateReady)
}

func (c *Controller) transition(to State) {
	c.mu.Lock()
	c.setStateLocked(to)
	c.mu.Unlock()
}

func (c *Controller) setStateLocked(to State) {
	from := c.state
	c.state = to
	if c.cfg.OnStateChange != nil {
		c.cfg.OnStateChange(from, to)
	}
}
