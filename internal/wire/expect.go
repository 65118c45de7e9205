package wire

import (
	"strconv"

	"github.com/dunnock/poloniexbook/internal/poloerr"
)

// The wire grammar accepts most scalars in either native JSON form or as
// their string encoding (a number field may arrive as a JSON number or
// as a numeric string). encoding/json decodes a loosely-typed frame into
// interface{}, so these helpers do the dual coercion by hand.

func expectFloat64(v any, field string) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, poloerr.ParseFloat(field, err)
		}
		return f, nil
	default:
		return 0, poloerr.WrongData("%s: expected number, got %T", field, v)
	}
}

func expectUint64(v any, field string) (uint64, error) {
	switch val := v.(type) {
	case float64:
		if val < 0 {
			return 0, poloerr.WrongData("%s: expected non-negative integer, got %v", field, val)
		}
		return uint64(val), nil
	case string:
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return 0, poloerr.ParseInt(field, err)
		}
		return n, nil
	default:
		return 0, poloerr.WrongData("%s: expected integer, got %T", field, v)
	}
}

func expectUint16(v any, field string) (uint16, error) {
	n, err := expectUint64(v, field)
	if err != nil {
		return 0, err
	}
	if n > 0xFFFF {
		return 0, poloerr.WrongData("%s: %d overflows uint16", field, n)
	}
	return uint16(n), nil
}

func expectString(v any, field string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", poloerr.WrongData("%s: expected string, got %T", field, v)
	}
	return s, nil
}

// expectAmountMap decodes a JSON object of rate-string -> amount, where
// amount may itself be a JSON number or numeric string (the orderBook
// side of an Initial record).
func expectAmountMap(v any, field string) (map[string]float64, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, poloerr.WrongData("%s: expected object, got %T", field, v)
	}
	out := make(map[string]float64, len(obj))
	for rate, amountRaw := range obj {
		amount, err := expectFloat64(amountRaw, field+"["+rate+"]")
		if err != nil {
			return nil, err
		}
		out[rate] = amount
	}
	return out, nil
}
