// Package validate wraps a shared validator/v10 instance behind a single
// Struct helper. Register any custom validations in an init before the
// first Struct call.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var instance = validator.New()

// Struct checks s against its `validate` tags and flattens every violation
// into one error, one clause per failing field.
func Struct(s interface{}) error {
	err := instance.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	clauses := make([]string, 0, len(ve))
	for _, fe := range ve {
		clauses = append(clauses, fmt.Sprintf("%s violates %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("validation: %s", strings.Join(clauses, "; "))
}
