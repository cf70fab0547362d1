package http

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/wekeepgrowing/institute-backend/pkg/logger"
	handlers "github.com/wekeepgrowing/institute-backend/services/payment/internal/adapter/handler/http"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/config"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/middleware/auth"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/usecase"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by the server. Sandbox is nil
// unless the simulated gateway is enabled.
type Handlers struct {
	Admission   *handlers.AdmissionHandler
	Payment     *handlers.PaymentHandler
	Installment *handlers.InstallmentHandler
	Sandbox     *handlers.SandboxHandler
}

// HealthChecker reports whether the service dependencies are reachable
type HealthChecker func(ctx context.Context) error

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	handlers Handlers
	health   HealthChecker
}

func NewServer(cfg *config.Config, log *zap.Logger, h Handlers, health HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewCustomValidator()

	logger.WithEchoLogger(e, log)

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		handlers: h,
		health:   health,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Addr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.RequestID())
	s.echo.Use(logger.NewEchoRequestLogger(s.logger))
	s.echo.Use(middleware.Recover())

	origins := []string{"*"}
	if s.config.Service.ClientURL != "" {
		origins = strings.Split(s.config.Service.ClientURL, ",")
	}
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
	}

	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))

	admissions := v1.Group("/admissions")
	admissions.POST("", s.handlers.Admission.CreateAdmission)
	admissions.GET("", s.handlers.Admission.ListAdmissions, auth.RequireRoles(usecase.StaffRoles...))
	admissions.GET("/:id", s.handlers.Admission.GetAdmission)

	payments := v1.Group("/payments")
	payments.POST("/create-order", s.handlers.Payment.CreateOrder)
	payments.POST("/verify", s.handlers.Payment.VerifyPayment)
	payments.GET("", s.handlers.Payment.ListPayments)
	payments.GET("/receipts/:receiptNumber", s.handlers.Payment.GetReceipt)
	payments.POST("/installments", s.handlers.Installment.CreateSchedule, auth.RequireRoles(usecase.StaffRoles...))
	payments.GET("/installments/:admissionId", s.handlers.Installment.ListInstallments)

	// Simulated gateway (development only)
	if s.handlers.Sandbox != nil && s.config.Service.EnableSandbox && !s.config.IsProduction() {
		sb := s.echo.Group("/sandbox")
		sb.GET("/checkout.js", s.handlers.Sandbox.CheckoutScript)
		sb.POST("/orders/:orderId/complete", s.handlers.Sandbox.CompleteOrder)
		s.logger.Warn("Sandbox gateway endpoints enabled")
	}
}

func (s *Server) healthCheck(c echo.Context) error {
	status := http.StatusOK
	body := map[string]string{
		"status":  "healthy",
		"service": s.config.Service.Name,
		"version": s.config.Service.Version,
	}
	if s.health != nil {
		if err := s.health(c.Request().Context()); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
		}
	}
	return c.JSON(status, body)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		if q := fld.Tag.Get("query"); q != "" {
			return q
		}
		return fld.Name
	}
	return name
}
