package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

// RegisterValidations installs the custom binding tags used by the request
// DTOs on gin's validator engine. Call once at startup.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		switch domain.Category(fl.Field().String()) {
		case domain.CategoryFacial, domain.CategoryKitchen, domain.CategoryToilet, domain.CategoryDolphin:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("leavetype", func(fl validator.FieldLevel) bool {
		return domain.ValidLeaveType(domain.LeaveType(fl.Field().String()))
	})
}
