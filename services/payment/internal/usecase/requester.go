package usecase

import (
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
)

// Roles carried in the bearer token
const (
	RoleStudent     = "student"
	RoleAdmin       = "admin"
	RoleBranchAdmin = "branch_admin"
	RoleAccountant  = "accountant"
	RoleReception   = "reception"
)

// StaffRoles may act on any admission.
var StaffRoles = []string{RoleAdmin, RoleBranchAdmin, RoleAccountant, RoleReception}

// Requester identifies the authenticated caller of a use case.
type Requester struct {
	UserID string
	Role   string
}

func (r Requester) IsStaff() bool {
	for _, role := range StaffRoles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// authorize lets staff through and students only to their own admission.
func authorize(r Requester, admission *entity.Admission) error {
	if r.IsStaff() {
		return nil
	}
	if r.UserID != "" && r.UserID == admission.StudentUserID {
		return nil
	}
	return domainErrors.NewForbiddenError("not allowed to access this admission")
}
