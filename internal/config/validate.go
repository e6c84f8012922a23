package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kamusis/coursepath/internal/validation"
)

// Validate checks field constraints and the cross-field rules validator tags
// cannot express.
func (c *Config) Validate() error {
	if err := validation.GetValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q", strings.ToLower(fe.Namespace()), fe.Tag())
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	for name, a := range map[string]Axis{"query.q1": c.Query.Q1, "query.q2": c.Query.Q2} {
		if !a.Contains(a.Default) {
			return fmt.Errorf("%s.default %g is outside [%g, %g]", name, a.Default, a.Min, a.Max)
		}
	}
	return nil
}
