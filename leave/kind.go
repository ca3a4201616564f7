/*
Package leave implements leave classification, policy rules, and
multi-year balance accounting.

PURPOSE:
  Time-entry rows arrive with inconsistent leave encodings: current rows
  carry a dedicated entry type, older rows carry one of several legacy
  fields, and imported rows may only have hints nested under metadata.
  This package resolves every variant to one canonical Kind, values the
  leave day (full vs. half), and tracks per-employee leave balances
  across years with proration and capped carryover.

KEY CONCEPTS IN THIS FILE (kind.go):
  - Kind: canonical leave classification
  - InferKind: ordered resolution from heterogeneous row fields
  - ValueMultiplier: fractional day weight (1.0 full, 0.5 half)

RESOLUTION ORDER (must not be reordered):
  1. entry_type      - single source of truth when present
  2. subtype fields  - explicit unpaid markers
  3. legacy fields   - leave_kind, leave_type, metadata.leave.*

  Reordering these silently reclassifies historical rows, so the order
  is part of the package contract.

SEE ALSO:
  - summary.go: Balance computation consuming ledger entries
  - policy.go: Organization-wide leave and holiday configuration
*/
package leave

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// KIND - Canonical leave classification
// =============================================================================

type Kind string

const (
	KindSystemPaid     Kind = "system_paid"
	KindEmployeePaid   Kind = "employee_paid"
	KindVacationUnpaid Kind = "vacation_unpaid"
	KindHolidayUnpaid  Kind = "holiday_unpaid"
	KindHalfDay        Kind = "half_day"
)

// Payable reports whether a leave of this kind is paid out.
// Unpaid variants still consume leave balance but never contribute pay.
func (k Kind) Payable() bool {
	switch k {
	case KindSystemPaid, KindEmployeePaid, KindHalfDay:
		return true
	default:
		return false
	}
}

// entryTypeKinds maps the canonical leave entry types to their Kind.
// When the entry type is one of these, it wins over every other field.
var entryTypeKinds = map[string]Kind{
	"leave_system_paid":   KindSystemPaid,
	"leave_employee_paid": KindEmployeePaid,
	"leave_unpaid":        KindVacationUnpaid,
	"leave_half_day":      KindHalfDay,
}

// IsLeaveEntryType reports whether the entry type string is one of the
// canonical leave entry types.
func IsLeaveEntryType(entryType string) bool {
	_, ok := entryTypeKinds[entryType]
	return ok
}

// =============================================================================
// ENTRY FIELDS - Classification input
// =============================================================================

// EntryFields carries the classification-relevant fields of a time-entry
// row. Zero values mean "field absent". Metadata holds the decoded JSON
// metadata object when the backing store supports it.
type EntryFields struct {
	EntryType string
	Kind      string // legacy leave_kind
	Type      string // legacy leave_type
	Subtype   string // legacy leave_subtype
	Fraction  float64
	Metadata  map[string]any
}

// legacyPrefixes are stripped from legacy tokens before matching.
// Order matters: longer, more specific prefixes first.
var legacyPrefixes = []string{
	"time_entry_leave_",
	"usage_",
	"leave_",
	"policy_",
}

// legacyTokens maps normalized legacy tokens to kinds.
var legacyTokens = map[string]Kind{
	"system_paid":     KindSystemPaid,
	"employee_paid":   KindEmployeePaid,
	"vacation_unpaid": KindVacationUnpaid,
	"holiday_unpaid":  KindHolidayUnpaid,
	"half_day":        KindHalfDay,
	"unpaid":          KindVacationUnpaid,
}

// InferKind resolves the canonical leave kind of a row.
// Returns ok=false when the row does not look like leave at all;
// callers must treat that as "not leave", not as an error.
func InferKind(f EntryFields) (Kind, bool) {
	// 1. entry_type is the single source of truth when present.
	if k, ok := entryTypeKinds[f.EntryType]; ok {
		return k, true
	}

	// 2. Explicit unpaid subtype forces an unpaid kind.
	subtype := f.Subtype
	if subtype == "" {
		subtype = metaString(f.Metadata, "leave", "subtype")
	}
	if subtype != "" {
		token := normalizeToken(subtype)
		if strings.Contains(token, "unpaid") {
			if strings.Contains(token, "holiday") {
				return KindHolidayUnpaid, true
			}
			return KindVacationUnpaid, true
		}
	}

	// 3. Legacy field scan in fixed priority order.
	candidates := []string{
		f.Kind,
		f.Type,
		metaString(f.Metadata, "leave", "kind"),
		metaString(f.Metadata, "leave", "type"),
	}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		if k, ok := legacyTokens[normalizeToken(raw)]; ok {
			return k, true
		}
	}

	return "", false
}

// normalizeToken lowercases a raw token and strips known legacy prefixes.
func normalizeToken(raw string) string {
	token := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range legacyPrefixes {
		token = strings.TrimPrefix(token, prefix)
	}
	return token
}

// =============================================================================
// VALUE MULTIPLIER - Fractional day weight
// =============================================================================

var (
	multiplierFull = decimal.NewFromInt(1)
	multiplierHalf = decimal.NewFromFloat(0.5)
)

// ValueMultiplier returns the fractional day value of a leave row.
// An explicit positive finite fraction wins; otherwise half-day rows
// weigh 0.5 and everything else a full day. The multiplier drives both
// pay calculation and leave-balance debit magnitude.
func ValueMultiplier(f EntryFields) decimal.Decimal {
	if validFraction(f.Fraction) {
		return decimal.NewFromFloat(f.Fraction)
	}
	if raw, ok := metaFloat(f.Metadata, "leave_fraction"); ok && validFraction(raw) {
		return decimal.NewFromFloat(raw)
	}
	if k, ok := InferKind(f); ok && k == KindHalfDay {
		return multiplierHalf
	}
	return multiplierFull
}

func validFraction(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// =============================================================================
// METADATA HELPERS
// =============================================================================

// metaString walks a nested metadata path and returns the string leaf.
func metaString(meta map[string]any, path ...string) string {
	v := metaValue(meta, path...)
	s, _ := v.(string)
	return s
}

// metaFloat returns a numeric metadata value at the given path.
func metaFloat(meta map[string]any, path ...string) (float64, bool) {
	switch v := metaValue(meta, path...).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return 0, false
		}
		return d.InexactFloat64(), true
	default:
		return 0, false
	}
}

func metaValue(meta map[string]any, path ...string) any {
	var current any = meta
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}
