package product

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/abgdnv/productcatalog/internal/money"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CreateRequest is the external request for a new product.
type CreateRequest struct {
	Name        string           `json:"name"        validate:"required"`
	Category    string           `json:"category"    validate:"required"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Quantity    Text             `json:"quantity"    validate:"required"`
	Description string           `json:"description" validate:"required"`
}

// ToProduct validates the request and converts it into an unsaved Product.
// Absent, null or empty fields and a zero price fail as missing; a negative price is invalid.
func (r CreateRequest) ToProduct(v *validator.Validate) (*Product, error) {
	if err := v.Struct(r); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			return nil, perrors.MissingField(strings.ToLower(vErrs[0].Field()))
		}
		return nil, fmt.Errorf("failed to validate product request: %w", err)
	}
	cents, err := priceCents("price", *r.Price)
	if err != nil {
		return nil, err
	}
	if cents == 0 {
		return nil, perrors.MissingField("price")
	}
	return &Product{
		Name:        r.Name,
		Category:    r.Category,
		PriceCents:  cents,
		Quantity:    string(r.Quantity),
		Description: r.Description,
	}, nil
}

func priceCents(field string, amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, perrors.InvalidValue(field, "must not be negative")
	}
	cents, err := money.ToMinorUnits(amount)
	if err != nil {
		return 0, perrors.InvalidValue(field, "too large")
	}
	return cents, nil
}

// Text is a string that also accepts JSON numbers, keeping their literal form.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected text or number, got %s", b)
	}
	*t = Text(n.String())
	return nil
}
