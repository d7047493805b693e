package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aanand-mishra/tutor-manager/internal/types"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

var errNoAt = errors.New("missing local part or domain")

// SanitizePhone puts a raw phone number into E.164 format. Numbers without
// an international prefix are read as national numbers of region.
func SanitizePhone(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(phoneDigits(raw), region)
	if err != nil {
		return "", fmt.Errorf("SanitizePhone: %w", err)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// SanitizeEmail normalizes an address: the local part is NFC-normalized and
// keeps its case, the domain is lower-cased in its Unicode form.
func SanitizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	at := strings.LastIndex(raw, "@")
	if at <= 0 || at == len(raw)-1 {
		return "", fmt.Errorf("SanitizeEmail: %w", errNoAt)
	}

	local := norm.NFC.String(raw[:at])
	domain, err := idna.Lookup.ToUnicode(strings.ToLower(raw[at+1:]))
	if err != nil {
		return "", fmt.Errorf("SanitizeEmail: domain: %w", err)
	}

	return local + "@" + domain, nil
}

// SanitizeDecimal rounds raw half-up to two decimal places.
func SanitizeDecimal(raw string) (string, error) {
	a, err := types.ParseAmount(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("SanitizeDecimal: %w", err)
	}
	return a.String(), nil
}

// phoneDigits keeps the digits of raw, plus a '+' when it comes first.
// Keeping the '+' makes SanitizePhone idempotent on E.164 input.
func phoneDigits(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func asciiDomain(domain string) (string, error) {
	return idna.Lookup.ToASCII(domain)
}
