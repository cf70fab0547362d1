package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name clients can query besides "".
const ServiceName = "institute.payment.v1.PaymentService"

// DependencyCheck reports whether a dependency is reachable
type DependencyCheck func(ctx context.Context) error

// HealthHandler drives the grpc_health_v1 status from a dependency check.
// It starts NOT_SERVING until the first successful check.
type HealthHandler struct {
	*health.Server
	check  DependencyCheck
	logger *zap.Logger
}

func NewHealthHandler(check DependencyCheck, logger *zap.Logger) *HealthHandler {
	h := &HealthHandler{
		Server: health.NewServer(),
		check:  check,
		logger: logger,
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Refresh runs the check once and publishes the result.
func (h *HealthHandler) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.check(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.set(status)
	return status
}

// Poll refreshes every interval until ctx is done, then reports NOT_SERVING.
func (h *HealthHandler) Poll(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			return nil
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, interval/2)
			h.Refresh(checkCtx)
			cancel()
		}
	}
}

func (h *HealthHandler) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.SetServingStatus("", status)
	h.SetServingStatus(ServiceName, status)
}
