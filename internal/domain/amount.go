package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Amount is an exercise quantity the model may send as a number ("sets": 3,
// "weight": 22.5) or as free text ("reps": "8-12", "restTime": "60s").
// Numbers stay numbers and strings stay strings across JSON and BSON.
// Values of any other JSON shape decode to the zero Amount.
type Amount struct {
	Num  float64
	Text string
}

// AmountOf builds a numeric Amount.
func AmountOf(n float64) Amount { return Amount{Num: n} }

// AmountText builds a free-text Amount.
func AmountText(s string) Amount { return Amount{Text: s} }

// IsZero lets omitempty drop unset amounts.
func (a Amount) IsZero() bool { return a.Num == 0 && a.Text == "" }

// Int reports the value as a whole number when it is one.
func (a Amount) Int() (int, bool) {
	if a.Text != "" || a.Num != math.Trunc(a.Num) {
		return 0, false
	}
	return int(a.Num), true
}

func (a Amount) String() string {
	if a.Text != "" {
		return a.Text
	}
	if a.Num == 0 {
		return ""
	}
	return strconv.FormatFloat(a.Num, 'f', -1, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.Text != "":
		return json.Marshal(a.Text)
	case a.Num != 0:
		return json.Marshal(a.Num)
	default:
		return []byte("null"), nil
	}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		a.Text = s
	case c == '-' || (c >= '0' && c <= '9'):
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		a.Num = f
	}
	return nil
}

func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch {
	case a.Text != "":
		return bson.MarshalValue(a.Text)
	case a.Num != 0:
		if n, ok := a.Int(); ok && n >= math.MinInt32 && n <= math.MaxInt32 {
			return bson.MarshalValue(int32(n))
		}
		return bson.MarshalValue(a.Num)
	default:
		return bsontype.Null, nil, nil
	}
}

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*a = Amount{}
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		return nil
	case bsontype.String:
		a.Text = raw.StringValue()
	case bsontype.Int32:
		a.Num = float64(raw.Int32())
	case bsontype.Int64:
		a.Num = float64(raw.Int64())
	case bsontype.Double:
		a.Num = raw.Double()
	default:
		return fmt.Errorf("amount: unsupported bson type %s", t)
	}
	return nil
}
