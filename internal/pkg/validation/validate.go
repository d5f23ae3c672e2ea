package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"interview-insights-be/internal/pkg/apperr"
)

var validate = validator.New()

// Struct checks a request against its validate tags. Failures come back as a
// single validation error naming every offending field, raised before any
// transaction is opened.
func Struct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validationf("%v", err)
	}

	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fmt.Sprintf("%s is %s", fe.Field(), fe.Tag())
	}
	return apperr.Validationf("%s", strings.Join(fields, ", "))
}
