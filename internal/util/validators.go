package util

import (
	"github.com/go-playground/validator/v10"
)

// ValidateObjectKey is registered with gin's binding validator as "objectkey".
func ValidateObjectKey(fl validator.FieldLevel) bool {
	key, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return IsValidObjectKey(key)
}
