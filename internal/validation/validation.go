package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"bitstore/internal/models"
)

// Code classifies why a field was rejected.
type Code string

const (
	CodeTooShort           Code = "too_short"
	CodeTooLong            Code = "too_long"
	CodeDuplicate          Code = "duplicate"
	CodeInvalidFormat      Code = "invalid_format"
	CodeOutOfRange         Code = "out_of_range"
	CodeInvalidCombination Code = "invalid_combination"
	CodeMismatch           Code = "mismatch"
	CodeMissingCharClass   Code = "missing_character_class"
)

// Error is a single field-tagged validation failure.
type Error struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Errors is the full set of failures for one candidate record.
// It satisfies the error interface so services can return it directly.
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return strings.Join(msgs, "; ")
}

// Map flattens the errors into a field -> message map for JSON responses.
// On multiple failures for one field the first one wins.
func (e Errors) Map() map[string]string {
	m := make(map[string]string, len(e))
	for _, err := range e {
		if _, ok := m[err.Field]; !ok {
			m[err.Field] = err.Message
		}
	}
	return m
}

// Has reports whether any failure carries the given field and code.
func (e Errors) Has(field string, code Code) bool {
	for _, err := range e {
		if err.Field == field && err.Code == code {
			return true
		}
	}
	return false
}

// ExistsFunc answers uniqueness lookups against the persistence layer.
// It is the only non-pure dependency of the engine.
type ExistsFunc func(value string) (bool, error)

// Special characters a registration password must draw from.
const passwordSpecials = "!@#$%^&*()_+"

// ValidateCategory checks a candidate category. The duplicate-name rule
// only applies on create; updates keep whatever name they carry and the
// unique index closes the rename race.
func ValidateCategory(c *models.Category, isCreate bool, nameTaken ExistsFunc) error {
	var errs Errors

	if utf8.RuneCountInString(c.Name) < 3 {
		errs = append(errs, Error{
			Field:   "name",
			Code:    CodeTooShort,
			Message: "Category name must be at least 3 characters long.",
		})
	} else if isCreate {
		taken, err := nameTaken(c.Name)
		if err != nil {
			return fmt.Errorf("failed to check category name: %w", err)
		}
		if taken {
			errs = append(errs, Error{
				Field:   "name",
				Code:    CodeDuplicate,
				Message: "Category with this name already exists.",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// productRule checks one product field. Rules run in a fixed order and
// accumulate, one failure per field.
type productRule struct {
	field string
	check func(p *models.Product) *Error
}

var productRules = []productRule{
	{"name", checkProductName},
	{"price", checkProductPrice},
	{"stock", checkProductStock},
	{"description", checkProductDescription},
}

// ValidateProduct checks a complete candidate product, including the
// price/stock coupling: expensive items must keep a minimum stock.
// Partial updates must be merged onto the stored record before calling.
func ValidateProduct(p *models.Product) error {
	var errs Errors

	for _, rule := range productRules {
		if e := rule.check(p); e != nil {
			errs = append(errs, *e)
		}
	}

	if p.Price > 10000 && p.Stock < 5 {
		errs = append(errs, Error{
			Field:   "stock",
			Code:    CodeInvalidCombination,
			Message: "If the price is greater than 10000, stock must be at least 5.",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkProductName(p *models.Product) *Error {
	if utf8.RuneCountInString(p.Name) < 5 {
		return &Error{
			Field:   "name",
			Code:    CodeTooShort,
			Message: "Product name must be at least 5 characters long.",
		}
	}
	if !isAlphanumeric(p.Name) {
		return &Error{
			Field:   "name",
			Code:    CodeInvalidFormat,
			Message: "Product name must be alphanumeric.",
		}
	}
	return nil
}

func checkProductPrice(p *models.Product) *Error {
	if p.Price <= 0 {
		return &Error{
			Field:   "price",
			Code:    CodeOutOfRange,
			Message: "Price must be greater than zero.",
		}
	}
	return nil
}

func checkProductStock(p *models.Product) *Error {
	if p.Stock < 0 {
		return &Error{
			Field:   "stock",
			Code:    CodeOutOfRange,
			Message: "Stock cannot be negative.",
		}
	}
	return nil
}

func checkProductDescription(p *models.Product) *Error {
	// Lengths count characters, not bytes, so multibyte text is measured
	// the way users see it.
	length := utf8.RuneCountInString(p.Description)
	if length < 10 {
		return &Error{
			Field:   "description",
			Code:    CodeTooShort,
			Message: "Description must be at least 10 characters long.",
		}
	}
	if length > 200 {
		return &Error{
			Field:   "description",
			Code:    CodeTooLong,
			Message: "Description must be at most 200 characters long.",
		}
	}
	return nil
}

// Registration carries the raw signup fields before a User exists.
type Registration struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

// ValidateRegistration runs the registration rules in a fixed order and
// stops at the first failure, mirroring how accounts have always been
// rejected: confirmation mismatch, then uniqueness, then password policy.
func ValidateRegistration(r *Registration, usernameTaken, emailTaken ExistsFunc) error {
	if r.Password != r.Password2 {
		return Errors{{Field: "password2", Code: CodeMismatch, Message: "Passwords do not match."}}
	}

	taken, err := usernameTaken(r.Username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return Errors{{Field: "username", Code: CodeDuplicate, Message: "Username already exists."}}
	}

	taken, err = emailTaken(r.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return Errors{{Field: "email", Code: CodeDuplicate, Message: "Email already exists."}}
	}

	if utf8.RuneCountInString(r.Password) < 8 {
		return Errors{{Field: "password", Code: CodeTooShort, Message: "Password must be at least 8 characters long."}}
	}
	if !strings.ContainsFunc(r.Password, unicode.IsDigit) {
		return Errors{{Field: "password", Code: CodeMissingCharClass, Message: "Password must contain at least one digit."}}
	}
	if !strings.ContainsFunc(r.Password, unicode.IsLetter) {
		return Errors{{Field: "password", Code: CodeMissingCharClass, Message: "Password must contain at least one letter."}}
	}
	if !strings.ContainsAny(r.Password, passwordSpecials) {
		return Errors{{Field: "password", Code: CodeMissingCharClass, Message: "Password must contain at least one special character."}}
	}
	if r.Password == r.Username {
		return Errors{{Field: "password", Code: CodeInvalidCombination, Message: "Password cannot be the same as username."}}
	}
	if r.Password == r.Email {
		return Errors{{Field: "password", Code: CodeInvalidCombination, Message: "Password cannot be the same as email."}}
	}

	return nil
}

// isAlphanumeric reports whether s is non-empty and made of letters and
// digits only.
func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
