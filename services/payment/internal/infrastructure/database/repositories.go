package database

import (
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Admission   domainRepo.AdmissionRepository
	Installment domainRepo.InstallmentRepository
	Payment     domainRepo.PaymentRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Admission:   repository.NewAdmissionRepository(db, logger),
		Installment: repository.NewInstallmentRepository(db, logger),
		Payment:     repository.NewPaymentRepository(db, logger),
	}
}
