// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"prodledger/internal/models"
)

var registerOnce sync.Once

// Register registers all custom validators with the Gin binding engine.
// Binding a DTO that carries one of these tags panics unless Register has
// run first, so router construction calls it before mounting any route.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("transaction_type", validateTransactionType)
			_ = v.RegisterValidation("transaction_category", validateTransactionCategory)
			_ = v.RegisterValidation("rate_type", validateRateType)
			_ = v.RegisterValidation("org_role", validateOrgRole)
		}
	})
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).IsValid()
}

func validateTransactionCategory(fl validator.FieldLevel) bool {
	return models.TransactionCategory(fl.Field().String()).IsValid()
}

func validateRateType(fl validator.FieldLevel) bool {
	return models.RateType(fl.Field().String()).IsValid()
}

func validateOrgRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).IsValid()
}
