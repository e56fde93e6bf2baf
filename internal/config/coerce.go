package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a coerced setting value. Only the field matching Kind is set.
type Value struct {
	Kind Kind
	Str  string
	Int  int
	Bool bool
	List []string
}

// String renders the value the way it would be written in a profile.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		return strings.Join(v.List, ",")
	default:
		return v.Str
	}
}

// CoercionError reports a raw value that could not be used for a setting.
type CoercionError struct {
	Setting string
	Value   string
	Origin  Origin
	Reason  string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("invalid %s value %q from %s: %s", e.Setting, e.Value, e.Origin, e.Reason)
}

// Coerce converts raw into the kind declared by def.
func Coerce(def Definition, raw string) (Value, error) {
	switch def.Kind {
	case KindInt:
		n, err := parseDecimal(raw)
		if err != nil {
			return Value{}, err
		}
		if (def.Min != 0 || def.Max != 0) && (n < def.Min || n > def.Max) {
			return Value{}, fmt.Errorf("out of range %d-%d", def.Min, def.Max)
		}
		return Value{Kind: KindInt, Int: n}, nil
	case KindBool:
		return Value{Kind: KindBool, Bool: ParseBool(raw)}, nil
	case KindList:
		return Value{Kind: KindList, List: ParseList(raw)}, nil
	default:
		return Value{Kind: KindString, Str: raw}, nil
	}
}

// parseDecimal accepts unsigned decimal digits only, surrounding
// whitespace aside. Signs are rejected.
func parseDecimal(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("not an integer")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not an integer")
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("integer out of range")
	}
	return n, nil
}

// ParseBool is true only for a case-insensitive "true". Anything else,
// including "yes" and "1", is false.
func ParseBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

// ParseList splits a comma-separated value, trimming items and dropping
// empty ones. An empty string yields an empty, non-nil list.
func ParseList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
