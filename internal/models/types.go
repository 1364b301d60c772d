package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Flag is a boolean that also accepts the legacy "true"/"false" strings older
// documents and clients carry.
type Flag bool

func (f *Flag) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Boolean:
		*f = Flag(raw.Boolean())
	case bsontype.String:
		*f = parseFlag(raw.StringValue())
	case bsontype.Null, bsontype.Undefined:
		*f = false
	default:
		return fmt.Errorf("cannot decode %s into a flag", t)
	}
	return nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case bool:
		*f = Flag(val)
	case string:
		*f = parseFlag(val)
	case nil:
		*f = false
	default:
		return fmt.Errorf("cannot decode %s into a flag", string(data))
	}
	return nil
}

// parseFlag keeps the old rule: only "true" counts as set.
func parseFlag(s string) Flag {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return Flag(err == nil && b)
}

// Amount is a money value. It decodes any BSON number and numeric strings
// written by older clients.
type Amount float64

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Double:
		*a = finite(raw.Double())
	case bsontype.Int32:
		*a = Amount(raw.Int32())
	case bsontype.Int64:
		*a = Amount(raw.Int64())
	case bsontype.Decimal128:
		f, err := strconv.ParseFloat(raw.Decimal128().String(), 64)
		if err != nil {
			return fmt.Errorf("decimal amount: %w", err)
		}
		*a = finite(f)
	case bsontype.String:
		f, err := ParseAmount(raw.StringValue())
		if err != nil {
			return err
		}
		*a = f
	case bsontype.Null, bsontype.Undefined:
		*a = 0
	default:
		return fmt.Errorf("cannot decode %s into an amount", t)
	}
	return nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*a = Amount(val)
	case string:
		f, err := ParseAmount(val)
		if err != nil {
			return err
		}
		*a = f
	case nil:
		*a = 0
	default:
		return fmt.Errorf("cannot decode %s into an amount", string(data))
	}
	return nil
}

// ParseAmount parses a decimal string such as a query parameter.
// NaN and infinities are rejected since they cannot be rendered as JSON.
func ParseAmount(s string) (Amount, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return Amount(f), nil
}

// finite maps stored NaN or infinite values to zero.
func finite(f float64) Amount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Amount(f)
}
