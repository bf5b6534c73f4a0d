package services

import (
	"math"
	"strconv"
	"strings"
)

// Helpers for reading loosely-typed JSON payloads. The storefront sends
// numbers as numbers or strings interchangeably, and prices may carry
// currency symbols. Nothing here returns an error: bad values collapse
// to safe defaults so a sloppy payload never aborts an order.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

func asBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true" || val == "1" || val == "on"
	case float64:
		return val != 0
	default:
		return false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parsePrice accepts numbers and free-text price strings like "15,50 ₽".
// Commas become dots, everything but digits and dots is stripped, and
// anything still unparseable (e.g. two dots left from "1.234,56") is 0.
func parsePrice(v any) float64 {
	switch val := v.(type) {
	case float64:
		if val < 0 {
			return 0
		}
		return val
	case string:
		cleaned := strings.ReplaceAll(val, ",", ".")
		cleaned = strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, cleaned)
		// "9.90 руб." leaves a trailing dot behind
		cleaned = strings.TrimRight(cleaned, ".")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || f < 0 {
			return 0
		}
		return f
	default:
		return 0
	}
}

// parseQuantity handles a PRESENT quantity value. An explicit 0 stays 0,
// negatives clamp to 0, unparseable values fall back to 1. Absent
// quantities are the caller's concern (they default to 1).
func parseQuantity(v any) int {
	switch val := v.(type) {
	case float64:
		if val < 0 {
			return 0
		}
		return int(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 1
		}
		if f < 0 {
			return 0
		}
		return int(f)
	default:
		return 1
	}
}

// quantityOf reads the first present key from m, defaulting to 1 when
// none is set.
func quantityOf(m map[string]any, keys ...string) int {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return parseQuantity(v)
		}
	}
	return 1
}

func asWeight(v any) float64 {
	w := parsePrice(v)
	if w <= 0 {
		return 0
	}
	return w
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
