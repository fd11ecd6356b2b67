// Package phone normalizes customer phone numbers to E.164 and refuses
// numbers that belong to staff or internal lines.
//
// The default dialing plan is India (+91, ten digit national numbers). Accepted
// input forms for the number 98765 43210:
//
//	9876543210
//	09876543210
//	919876543210
//	+91 98765-43210
//	0091 98765 43210
package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrInvalidFormat is returned when a number cannot be normalized.
	ErrInvalidFormat = errors.New("phone: invalid format")
	// ErrBlockedNumber is returned when a number is on the staff blocklist.
	ErrBlockedNumber = errors.New("phone: blocked number")
)

// Phone is a normalized number in E.164 form, e.g. "+919876543210".
type Phone string

func (p Phone) String() string {
	return string(p)
}

// Validator normalizes numbers and applies a static blocklist.
type Validator struct {
	countryCode string
	nationalLen int
	blocked     map[Phone]struct{}
}

// Option customizes a Validator.
type Option func(*Validator)

// WithDialingPlan overrides the country code (digits only) and the national
// number length.
func WithDialingPlan(countryCode string, nationalLen int) Option {
	return func(v *Validator) {
		v.countryCode = countryCode
		v.nationalLen = nationalLen
	}
}

// NewValidator builds a Validator. Every blocklist entry goes through the same
// normalization as customer input so that any written form of a staff number
// is caught.
func NewValidator(blocklist []string, opts ...Option) (*Validator, error) {
	v := &Validator{
		countryCode: "91",
		nationalLen: 10,
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.countryCode == "" || v.nationalLen <= 0 {
		return nil, fmt.Errorf("phone: invalid dialing plan +%s/%d", v.countryCode, v.nationalLen)
	}

	normalized := make([]Phone, 0, len(blocklist))
	for _, raw := range blocklist {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		p, err := v.normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("phone: blocklist entry %q: %w", raw, err)
		}
		normalized = append(normalized, p)
	}

	v.blocked = lo.SliceToMap(lo.Uniq(normalized), func(p Phone) (Phone, struct{}) {
		return p, struct{}{}
	})

	return v, nil
}

// Normalize returns the E.164 form of raw, ErrInvalidFormat when the digits do
// not fit the dialing plan, or ErrBlockedNumber when the result is blocklisted.
func (v *Validator) Normalize(raw string) (Phone, error) {
	p, err := v.normalize(raw)
	if err != nil {
		return "", err
	}

	if v.IsBlocked(p) {
		return "", ErrBlockedNumber
	}

	return p, nil
}

// IsBlocked reports whether an already normalized number is blocklisted.
func (v *Validator) IsBlocked(p Phone) bool {
	_, ok := v.blocked[p]
	return ok
}

// BlockedCount returns the size of the blocklist.
func (v *Validator) BlockedCount() int {
	return len(v.blocked)
}

func (v *Validator) normalize(raw string) (Phone, error) {
	digits := onlyDigits(raw)
	cc := v.countryCode

	// international dialing prefix, e.g. 0091...
	if strings.HasPrefix(digits, "00"+cc) {
		digits = digits[2:]
	}

	var national string
	switch {
	case len(digits) == v.nationalLen:
		national = digits
	case len(digits) == len(cc)+v.nationalLen && strings.HasPrefix(digits, cc):
		national = digits[len(cc):]
	case len(digits) == v.nationalLen+1 && digits[0] == '0':
		national = digits[1:]
	default:
		return "", ErrInvalidFormat
	}

	if national[0] == '0' {
		return "", ErrInvalidFormat
	}

	return Phone("+" + cc + national), nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
