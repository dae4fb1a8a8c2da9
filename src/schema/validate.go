package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pixelgrade/customify/src/customizer"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	idPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("schema_id", func(fl validator.FieldLevel) bool {
			return idPattern.MatchString(fl.Field().String())
		})

		v.RegisterStructValidation(validateSetting, Setting{})

		validateInst = v
	})
	return validateInst
}

// validateSetting checks the rules that span fields of a setting
func validateSetting(sl validator.StructLevel) {
	s := sl.Current().Interface().(Setting)
	if s.Type == string(customizer.ControlRange) {
		if s.Max <= s.Min {
			sl.ReportError(s.Max, "max", "Max", "gtfield_min", "")
		}
		if s.Step <= 0 {
			sl.ReportError(s.Step, "step", "Step", "gt_zero", "")
		}
	}
}

// Validate checks a parsed schema: field rules first, then that every
// default is a valid value for its control.
func Validate(f *File) error {
	if err := validatorInstance().Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return err
	}
	for _, p := range f.Panels {
		if err := validateDefaults(p.Sections); err != nil {
			return err
		}
	}
	return validateDefaults(f.Sections)
}

func validateDefaults(sections []Section) error {
	for _, section := range sections {
		for _, s := range section.Settings {
			if _, err := s.toRegistry(section.ID).Normalize(s.Default); err != nil {
				return fmt.Errorf("default of setting '%s': %w", s.ID, err)
			}
		}
	}
	return nil
}

func formatValidationErrors(verrs validator.ValidationErrors) error {
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Drop the root type name, it is always File
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s: failed '%s=%s'", field, fe.Tag(), fe.Param()))
		} else {
			messages = append(messages, fmt.Sprintf("%s: failed '%s'", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
