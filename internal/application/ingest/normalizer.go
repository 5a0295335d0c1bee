package ingest

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/ecomsync/backend/internal/domain/commerce"
	"github.com/ecomsync/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Normalize maps a raw platform payload to the canonical product record.
// Normalizers are pure: they validate and convert, and the only timestamp
// they set is the source's own creation timestamp.
func Normalize(platform commerce.Platform, raw []byte) (*commerce.Product, error) {
	switch platform {
	case commerce.PlatformShopify:
		return NormalizeShopify(raw)
	case commerce.PlatformWooCommerce:
		return NormalizeWooCommerce(raw)
	default:
		return nil, shared.ErrUnknownPlatform
	}
}

// NormalizeShopify maps the Shopify-like payload shape
// {product_id, name, price:{amount, currency}, inventory, created_at}
// to a canonical product.
func NormalizeShopify(raw []byte) (*commerce.Product, error) {
	const p = commerce.PlatformShopify

	fields, err := decodeObject(p, raw)
	if err != nil {
		return nil, err
	}

	productID, err := stringField(p, fields, "product_id")
	if err != nil {
		return nil, err
	}
	name, err := stringField(p, fields, "name")
	if err != nil {
		return nil, err
	}

	priceObj, ok := fields["price"].(map[string]any)
	if !ok {
		if _, present := fields["price"]; !present {
			return nil, missingField(p, "price")
		}
		return nil, invalidField(p, "price", "expected an object with amount and currency")
	}
	amount, err := decimalField(p, priceObj, "price.amount", "amount")
	if err != nil {
		return nil, err
	}
	currency, err := currencyField(p, priceObj, "price.currency", "currency")
	if err != nil {
		return nil, err
	}

	quantity, err := quantityField(p, fields, "inventory")
	if err != nil {
		return nil, err
	}
	createdAt, err := timestampField(p, fields, "created_at")
	if err != nil {
		return nil, err
	}

	return &commerce.Product{
		Platform:   p,
		PlatformID: productID,
		Title:      name,
		Price:      amount,
		Currency:   currency,
		Quantity:   quantity,
		CreatedAt:  createdAt,
	}, nil
}

// NormalizeWooCommerce maps the WooCommerce-like payload shape
// {id, title, price, currency_code, stock_quantity, date_created}
// to a canonical product. The numeric id is coerced to a string.
func NormalizeWooCommerce(raw []byte) (*commerce.Product, error) {
	const p = commerce.PlatformWooCommerce

	fields, err := decodeObject(p, raw)
	if err != nil {
		return nil, err
	}

	id, err := coercedIDField(p, fields, "id")
	if err != nil {
		return nil, err
	}
	title, err := stringField(p, fields, "title")
	if err != nil {
		return nil, err
	}
	price, err := decimalField(p, fields, "price", "price")
	if err != nil {
		return nil, err
	}
	currency, err := currencyField(p, fields, "currency_code", "currency_code")
	if err != nil {
		return nil, err
	}
	quantity, err := quantityField(p, fields, "stock_quantity")
	if err != nil {
		return nil, err
	}
	createdAt, err := timestampField(p, fields, "date_created")
	if err != nil {
		return nil, err
	}

	return &commerce.Product{
		Platform:   p,
		PlatformID: id,
		Title:      title,
		Price:      price,
		Currency:   currency,
		Quantity:   quantity,
		CreatedAt:  createdAt,
	}, nil
}

// decodeObject parses the raw payload as a JSON object, keeping numbers as
// json.Number so price and quantity conversions stay lossless
func decodeObject(p commerce.Platform, raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, invalidField(p, "", "payload is not a JSON object")
	}
	return fields, nil
}

func stringField(p commerce.Platform, fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", missingField(p, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidField(p, key, "expected a string")
	}
	if s == "" {
		return "", invalidField(p, key, "must not be empty")
	}
	return s, nil
}

// coercedIDField accepts an integer or string identifier and returns its
// string form
func coercedIDField(p commerce.Platform, fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", missingField(p, key)
	}
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", invalidField(p, key, "must not be empty")
		}
		return id, nil
	case json.Number:
		return id.String(), nil
	default:
		return "", invalidField(p, key, "expected a string or number")
	}
}

// decimalField accepts a numeric or numeric-string value and converts it to
// a decimal without passing through float64
func decimalField(p commerce.Platform, fields map[string]any, label, key string) (decimal.Decimal, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return decimal.Decimal{}, missingField(p, label)
	}

	var text string
	switch n := v.(type) {
	case json.Number:
		text = n.String()
	case string:
		text = n
	default:
		return decimal.Decimal{}, invalidField(p, label, "expected a number")
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, invalidField(p, label, "not a valid number")
	}
	if d.IsNegative() {
		return decimal.Decimal{}, invalidField(p, label, "must not be negative")
	}
	return d, nil
}

func currencyField(p commerce.Platform, fields map[string]any, label, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", missingField(p, label)
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidField(p, label, "expected a string")
	}
	if len(s) != 3 {
		return "", invalidField(p, label, "expected a 3-letter currency code")
	}
	return s, nil
}

func quantityField(p commerce.Platform, fields map[string]any, key string) (int, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, missingField(p, key)
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, invalidField(p, key, "expected an integer")
	}
	q, err := n.Int64()
	if err != nil {
		return 0, invalidField(p, key, "expected an integer")
	}
	if q < 0 {
		return 0, invalidField(p, key, "must not be negative")
	}
	return int(q), nil
}

func timestampField(p commerce.Platform, fields map[string]any, key string) (time.Time, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return time.Time{}, missingField(p, key)
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, invalidField(p, key, "expected an RFC3339 timestamp")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, invalidField(p, key, "not a valid RFC3339 timestamp")
	}
	return t, nil
}
