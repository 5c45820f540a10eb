package player

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/player-soap-service/internal/domain/shared"
)

// fieldMessages holds the caller-facing message for each top-level draft field.
// Nested statistic/award failures collapse onto their collection's message.
var fieldMessages = map[string]string{
	"Name":       "Player name is required",
	"Country":    "Player country is required",
	"Club":       "Player club is required",
	"Position":   fmt.Sprintf("Invalid position. Must be one of: %s", positionList()),
	"Age":        fmt.Sprintf("Invalid age. Must be between %d and %d", MinAge, MaxAge),
	"Statistics": "Invalid statistics data",
	"Awards":     "Invalid award data",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("position", func(fl validator.FieldLevel) bool {
		return IsValidPosition(Position(fl.Field().String()))
	})
	return v
}

// IsValidPosition reports whether p is one of the enumerated positions
func IsValidPosition(p Position) bool {
	for _, candidate := range Positions {
		if p == candidate {
			return true
		}
	}
	return false
}

// Validate checks a draft before any mutation. Rules run in field order
// (name, country, club, position, age, statistics, awards) and the first failure wins.
func Validate(d Draft) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return shared.NewValidationError("", err.Error())
	}

	first := validationErrs[0]
	path := strings.TrimPrefix(first.StructNamespace(), "Draft.")
	root := path
	if i := strings.IndexAny(root, "[."); i >= 0 {
		root = root[:i]
	}

	message, ok := fieldMessages[root]
	if !ok {
		message = fmt.Sprintf("Invalid %s", lowerFirst(root))
	}
	return shared.NewValidationError(fieldPath(path), message)
}

// ValidateAll validates every draft before anything is written. The error names the
// offending draft's position in the batch.
func ValidateAll(drafts []Draft) error {
	if len(drafts) == 0 {
		return shared.NewValidationError("players", "No players provided for bulk creation")
	}
	for i, d := range drafts {
		if err := Validate(d); err != nil {
			var validationErr *shared.ValidationError
			if errors.As(err, &validationErr) {
				return shared.NewValidationError(
					fmt.Sprintf("players[%d].%s", i, validationErr.Field),
					fmt.Sprintf("Player %d: %s", i+1, validationErr.Message),
				)
			}
			return err
		}
	}
	return nil
}

// ValidateStatistics checks a replacement statistics set on its own
func ValidateStatistics(stats []StatisticDraft) error {
	for i, s := range stats {
		if err := validate.Struct(s); err != nil {
			return shared.NewValidationError(fmt.Sprintf("statistics[%d]", i), fieldMessages["Statistics"])
		}
	}
	return nil
}

// fieldPath turns "Statistics[0].Goals" into "statistics[0].goals"
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	for i, p := range parts {
		parts[i] = lowerFirst(p)
	}
	return strings.Join(parts, ".")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func positionList() string {
	names := make([]string, len(Positions))
	for i, p := range Positions {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
