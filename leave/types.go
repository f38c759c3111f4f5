// Package leave replays approved leave against annual quotas to derive
// Loss-of-Pay days for a salary month.
package leave

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// CATEGORY - Closed set of leave kinds the engine understands
// =============================================================================

// Category is the normalized leave type. Free-text tags from upstream systems
// are mapped to a Category once, at intake, with ParseCategory.
type Category string

const (
	CategoryCasual       Category = "casual"
	CategorySick         Category = "sick"
	CategoryPrivilege    Category = "privilege"
	CategoryLossOfPay    Category = "loss_of_pay"
	CategoryBereavement  Category = "bereavement"
	CategoryUnrecognized Category = "unrecognized"
)

// QuotaCategories are the categories that draw from an annual allocation.
var QuotaCategories = []Category{CategoryCasual, CategorySick, CategoryPrivilege}

// HasQuota reports whether days of this category consume an allocation.
func (c Category) HasQuota() bool {
	switch c {
	case CategoryCasual, CategorySick, CategoryPrivilege:
		return true
	}
	return false
}

// Known reports whether c is one of the declared categories.
func (c Category) Known() bool {
	switch c {
	case CategoryCasual, CategorySick, CategoryPrivilege,
		CategoryLossOfPay, CategoryBereavement, CategoryUnrecognized:
		return true
	}
	return false
}

var categoryAliases = map[string]Category{
	"CASUAL":            CategoryCasual,
	"CASUAL LEAVE":      CategoryCasual,
	"CL":                CategoryCasual,
	"SICK":              CategorySick,
	"SICK LEAVE":        CategorySick,
	"SL":                CategorySick,
	"PRIVILEGE":         CategoryPrivilege,
	"PRIVILEGE LEAVE":   CategoryPrivilege,
	"PRIVILEGED LEAVE":  CategoryPrivilege,
	"PL":                CategoryPrivilege,
	"EARNED LEAVE":      CategoryPrivilege,
	"EL":                CategoryPrivilege,
	"LOP":               CategoryLossOfPay,
	"LOSS OF PAY":       CategoryLossOfPay,
	"LWP":               CategoryLossOfPay,
	"LEAVE WITHOUT PAY": CategoryLossOfPay,
	"UNPAID":            CategoryLossOfPay,
	"UNPAID LEAVE":      CategoryLossOfPay,
	"BEREAVEMENT":       CategoryBereavement,
	"BEREAVEMENT LEAVE": CategoryBereavement,
}

// ParseCategory maps a free-text leave type to a Category. Matching is
// case-insensitive, ignores surrounding whitespace and treats underscores and
// dashes as spaces, so Category values round-trip. Anything else is
// CategoryUnrecognized.
func ParseCategory(raw string) Category {
	key := normalizeTag(raw)
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return CategoryUnrecognized
}

func normalizeTag(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// =============================================================================
// DAY TYPE
// =============================================================================

type DayType string

const (
	FullDay DayType = "full_day"
	HalfDay DayType = "half_day"
)

var halfDayValue = decimal.RequireFromString("0.5")

// Value is the day-units one date of this type is worth.
func (d DayType) Value() generic.Amount {
	if d == HalfDay {
		return generic.Days(halfDayValue)
	}
	return generic.Days(decimal.NewFromInt(1))
}

// ParseDayType recognizes half-day spellings; everything else is a full day.
func ParseDayType(raw string) DayType {
	switch normalizeTag(raw) {
	case "HALF", "HALF DAY", "HALFDAY", "HD", "0.5":
		return HalfDay
	}
	return FullDay
}

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusCanceled Status = "canceled"
)

func ParseStatus(raw string) Status {
	switch normalizeTag(raw) {
	case "APPROVED":
		return StatusApproved
	case "REJECTED":
		return StatusRejected
	case "CANCELED", "CANCELLED":
		return StatusCanceled
	}
	return StatusPending
}

// =============================================================================
// REQUEST / ALLOCATION
// =============================================================================

// Request is one leave booking. Start and End are inclusive.
type Request struct {
	ID         string
	EmployeeID generic.EmployeeID
	Category   Category
	RawType    string // original tag, for logs
	Start      generic.TimePoint
	End        generic.TimePoint
	DayType    DayType
	Status     Status
}

func (r Request) Span() generic.Period {
	return generic.Period{Start: r.Start, End: r.End}
}

// SpanValue is the day-units the request would be worth if every date
// counted, weekends included.
func (r Request) SpanValue() generic.Amount {
	v := r.DayType.Value()
	return generic.Days(v.Value.Mul(decimal.NewFromInt(int64(r.Span().Len()))))
}

// Allocation is the annual entitlement for one quota category.
type Allocation struct {
	EmployeeID generic.EmployeeID
	Category   Category
	Quota      decimal.Decimal
}
