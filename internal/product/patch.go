package product

import (
	"encoding/json"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/shopspring/decimal"
)

// Patch is a partial update keyed by external field name.
type Patch map[string]json.RawMessage

type setter func(p *Product, raw json.RawMessage) error

// patchable lists the fields a Patch may change, in the order they are applied.
var patchable = []struct {
	field string
	set   setter
}{
	{"name", stringSetter("name", func(p *Product, v string) { p.Name = v })},
	{"category", stringSetter("category", func(p *Product, v string) { p.Category = v })},
	{"price", setPrice},
	{"quantity", textSetter("quantity", func(p *Product, v string) { p.Quantity = v })},
	{"description", stringSetter("description", func(p *Product, v string) { p.Description = v })},
}

// Apply sets the allowed fields present in patch. Unknown keys, including "id", are ignored.
// The product is left unchanged if any value is invalid.
func (p *Product) Apply(patch Patch) error {
	next := *p
	for _, f := range patchable {
		raw, ok := patch[f.field]
		if !ok {
			continue
		}
		if err := f.set(&next, raw); err != nil {
			return err
		}
	}
	*p = next
	return nil
}

// stringSetter accepts JSON strings only, like the matching CreateRequest fields.
func stringSetter(field string, assign func(p *Product, v string)) setter {
	return func(p *Product, raw json.RawMessage) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return perrors.InvalidValue(field, "must be a string")
		}
		if v == nil || *v == "" {
			return perrors.InvalidValue(field, "must not be empty")
		}
		assign(p, *v)
		return nil
	}
}

// textSetter also accepts JSON numbers, like CreateRequest.Quantity.
func textSetter(field string, assign func(p *Product, v string)) setter {
	return func(p *Product, raw json.RawMessage) error {
		var t Text
		if err := json.Unmarshal(raw, &t); err != nil {
			return perrors.InvalidValue(field, err.Error())
		}
		if t == "" {
			return perrors.InvalidValue(field, "must not be empty")
		}
		assign(p, string(t))
		return nil
	}
}

func setPrice(p *Product, raw json.RawMessage) error {
	var amount *decimal.Decimal
	if err := json.Unmarshal(raw, &amount); err != nil {
		return perrors.InvalidValue("price", "must be a decimal amount")
	}
	if amount == nil {
		return perrors.InvalidValue("price", "must not be empty")
	}
	cents, err := priceCents("price", *amount)
	if err != nil {
		return err
	}
	if cents == 0 {
		return perrors.InvalidValue("price", "must be greater than zero")
	}
	p.PriceCents = cents
	return nil
}
