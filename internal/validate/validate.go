package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSKU   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,49}$`)
	reType  = regexp.MustCompile(`^(manufacturer_distributor|distributor_retailer)$`)
	reDec   = regexp.MustCompile(`^(approved|rejected)$`)
	reDeliv = regexp.MustCompile(`^(direct|drop_ship)$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a simple resource identifier (user/product/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func SKU(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reSKU.MatchString(s)
}

// PartnershipType validates the allowed relationship type enums.
func PartnershipType(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reType.MatchString(s)
}

// Decision validates a partnership response.
func Decision(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reDec.MatchString(s)
}

// DeliveryOption normalizes the checkout delivery choice; empty
// defaults to direct.
func DeliveryOption(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "direct", true
	}
	return s, reDeliv.MatchString(s)
}

// Qty parses a positive line quantity, clamped to avoid abuse.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 10000 {
		return 10000
	}
	return n
}

// Quantity checks an already-parsed quantity from a JSON body.
func Quantity(n int) bool { return n >= 1 && n <= 10000 }

// Price checks a non-negative money amount.
func Price(f float64) bool { return f >= 0 }

// Notes bounds the free-text order notes field.
func Notes(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 500 {
		return "", false
	}
	return s, true
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	return l >= 8 && l <= 72
}
