package filter

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"carbazaar/internal/domain/entity"
	"carbazaar/pkg/errors"
)

// MaxInValues is the largest membership list a store query accepts.
const MaxInValues = 30

// Normalize validates predicates and coerces their values: numeric fields get
// int64 (or float64 for fractional input), membership values become
// []interface{}. Any predicate missing its field, condition or value is a
// client error. Normalize must run before a query touches the store.
func Normalize(predicates []entity.Predicate) ([]entity.Predicate, error) {
	out := make([]entity.Predicate, 0, len(predicates))
	probe := &entity.Listing{}

	for i, p := range predicates {
		if strings.TrimSpace(p.Field) == "" || p.Condition == "" || p.Value == nil {
			return nil, errors.BadRequest(fmt.Sprintf("Filter %d must have field, condition and value", i), nil)
		}
		if !p.Condition.Valid() {
			return nil, errors.BadRequest(fmt.Sprintf("Filter %d has unsupported condition %q", i, p.Condition), nil)
		}
		if _, ok := probe.FieldValue(p.Field); !ok {
			return nil, errors.BadRequest(fmt.Sprintf("Filter %d uses unknown field %q", i, p.Field), nil)
		}

		value, err := normalizeValue(p)
		if err != nil {
			return nil, errors.BadRequest(fmt.Sprintf("Filter %d: %v", i, err), err)
		}
		out = append(out, entity.Predicate{Field: p.Field, Condition: p.Condition, Value: value})
	}
	return out, nil
}

func normalizeValue(p entity.Predicate) (interface{}, error) {
	rv := reflect.ValueOf(p.Value)
	isList := rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array

	if p.Condition != entity.ConditionIn {
		if isList {
			return nil, fmt.Errorf("condition %s needs a single value", p.Condition)
		}
		return coerce(p.Field, p.Value)
	}

	if !isList {
		return nil, fmt.Errorf("condition in needs a list value")
	}
	if rv.Len() == 0 || rv.Len() > MaxInValues {
		return nil, fmt.Errorf("condition in needs between 1 and %d values", MaxInValues)
	}

	values := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := coerce(p.Field, rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func coerce(field string, v interface{}) (interface{}, error) {
	if entity.NumericFields[field] {
		n, ok := ToNumber(v)
		if !ok {
			return nil, fmt.Errorf("%s must be numeric, got %v", field, v)
		}
		if n == math.Trunc(n) && math.Abs(n) < math.MaxInt64 {
			return int64(n), nil
		}
		return n, nil
	}

	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string, got %v", field, v)
	}
	return s, nil
}

// ToNumber converts JSON, Firestore and string representations of a number.
func ToNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// ToInt64 is ToNumber truncated to an integer; non-numeric input yields 0.
func ToInt64(v interface{}) int64 {
	n, ok := ToNumber(v)
	if !ok {
		return 0
	}
	return int64(n)
}

// Match reports whether l satisfies every predicate. Predicates are expected
// to be normalized.
func Match(l *entity.Listing, predicates []entity.Predicate) bool {
	for _, p := range predicates {
		if !matchOne(l, p) {
			return false
		}
	}
	return true
}

func matchOne(l *entity.Listing, p entity.Predicate) bool {
	actual, ok := l.FieldValue(p.Field)
	if !ok {
		return false
	}

	switch p.Condition {
	case entity.ConditionIn:
		rv := reflect.ValueOf(p.Value)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if c, ok := compare(actual, rv.Index(i).Interface()); ok && c == 0 {
				return true
			}
		}
		return false
	case entity.ConditionEqual:
		c, ok := compare(actual, p.Value)
		return ok && c == 0
	case entity.ConditionGTE:
		c, ok := compare(actual, p.Value)
		return ok && c >= 0
	case entity.ConditionLTE:
		c, ok := compare(actual, p.Value)
		return ok && c <= 0
	}
	return false
}

// compare orders actual against expected. Numbers compare numerically and
// strings lexically; mixed types do not compare.
func compare(actual, expected interface{}) (int, bool) {
	switch a := actual.(type) {
	case float64:
		e, ok := ToNumber(expected)
		if !ok {
			return 0, false
		}
		switch {
		case a < e:
			return -1, true
		case a > e:
			return 1, true
		}
		return 0, true
	case string:
		e, ok := expected.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(a, e), true
	}
	return 0, false
}
