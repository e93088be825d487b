package helpers

import (
	"strconv"
	"strings"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

const (
	LookupByCard   = "card"
	LookupByMobile = "mobile"
)

// ClassifyLookupValue tells a 16-digit member card apart from a 10-digit
// mobile number. Anything else is unusable for a booth lookup.
func ClassifyLookupValue(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	switch len(value) {
	case 16:
		return LookupByCard, true
	case 10:
		return LookupByMobile, true
	}
	return "", false
}
