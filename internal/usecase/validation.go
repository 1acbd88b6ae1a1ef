package usecase

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

const (
	maxNameLen     = 100
	maxEmailLen    = 254
	maxPhoneLen    = 32
	maxAddressLen  = 200
	minPhoneDigits = 6
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	validate     = validator.New(validator.WithRequiredStructEnabled())
)

// NormalizeCart validates a submission and returns a new normalized cart.
// The submission itself is never modified.
func NormalizeCart(in model.CartSubmission) (model.Cart, error) {
	customer := model.Customer{
		Name:    truncate(strings.TrimSpace(in.Customer.Name), maxNameLen),
		Email:   truncate(strings.ToLower(strings.TrimSpace(in.Customer.Email)), maxEmailLen),
		Phone:   truncate(strings.TrimSpace(in.Customer.Phone), maxPhoneLen),
		Address: truncate(strings.TrimSpace(in.Customer.Address), maxAddressLen),
	}

	if customer.Name == "" {
		return model.Cart{}, domainErrors.Invalid("customer.name", "name is required")
	}
	if len(in.Items) == 0 {
		return model.Cart{}, domainErrors.Invalid("items", "at least one item is required")
	}
	if customer.Email == "" && customer.Phone == "" {
		return model.Cart{}, domainErrors.Invalid("customer", "email or phone is required")
	}
	if customer.Email != "" && !emailPattern.MatchString(customer.Email) {
		return model.Cart{}, domainErrors.Invalid("customer.email", "invalid email")
	}
	if customer.Phone != "" && countDigits(customer.Phone) < minPhoneDigits {
		return model.Cart{}, domainErrors.Invalid("customer.phone", "invalid phone")
	}

	items := make([]model.CartItem, 0, len(in.Items))
	for i, item := range in.Items {
		if err := validate.Struct(item); err != nil {
			return model.Cart{}, fieldError(fmt.Sprintf("items[%d]", i), err)
		}
		items = append(items, model.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return model.Cart{Customer: customer, Items: items}, nil
}

// fieldError converts the first validator failure into a ValidationError.
func fieldError(prefix string, err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return domainErrors.Invalid(prefix, err.Error())
	}

	fe := errs[0]
	field := toSnake(fe.Field())
	if prefix != "" {
		field = prefix + "." + field
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "gt":
		reason = "must be greater than " + fe.Param()
	case "min":
		reason = "must be at least " + fe.Param()
	case "max":
		reason = "must be at most " + fe.Param()
	default:
		reason = "is invalid"
	}
	return domainErrors.Invalid(field, reason)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func countDigits(s string) int {
	var n int
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(rune(s[i-1])) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
