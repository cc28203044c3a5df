package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRecord checks the record's identifying fields: dates, category letter and activity type.
func ValidateRecord(r *CategoryPeriodRecord) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if err := recordValidator().Struct(r); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid record %s/%s: %s", r.Categoria, r.TipoActividad, strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid record: %w", err)
	}
	if r.EndDate < r.StartDate {
		return fmt.Errorf("invalid record %s/%s: end_date %s before start_date %s", r.Categoria, r.TipoActividad, r.EndDate, r.StartDate)
	}
	return nil
}
