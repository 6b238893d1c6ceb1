package requests

import (
	"strings"

	"jan-server/services/thread-api/internal/utils/idgen"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("threadid", validatePrefixedID("th"))
		v.RegisterValidation("messageid", validatePrefixedID("msg"))
	}
}

// validatePrefixedID accepts well-formed public identifiers for the given
// prefix ("th_...", "msg_..."). Empty values pass; combine with required
// when the field is mandatory.
func validatePrefixedID(prefix string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		if value == "" {
			return true
		}
		return idgen.ValidateIDFormat(value, prefix)
	}
}
