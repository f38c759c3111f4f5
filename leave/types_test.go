package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/payroll-engine/leave"
)

func TestParseCategory(t *testing.T) {
	tests := map[string]leave.Category{
		"Casual Leave":    leave.CategoryCasual,
		"  cl ":           leave.CategoryCasual,
		"SICK":            leave.CategorySick,
		"sick_leave":      leave.CategorySick,
		"Privilege":       leave.CategoryPrivilege,
		"earned-leave":    leave.CategoryPrivilege,
		"LOP":             leave.CategoryLossOfPay,
		"loss_of_pay":     leave.CategoryLossOfPay,
		"Unpaid":          leave.CategoryLossOfPay,
		"bereavement":     leave.CategoryBereavement,
		"Maternity":       leave.CategoryUnrecognized,
		"":                leave.CategoryUnrecognized,
		"casual  leave":   leave.CategoryCasual,
		"UNRECOGNIZED":    leave.CategoryUnrecognized,
		"Comp Off":        leave.CategoryUnrecognized,
		"privilege leave": leave.CategoryPrivilege,
	}
	for raw, want := range tests {
		assert.Equal(t, want, leave.ParseCategory(raw), "raw %q", raw)
	}
}

func TestParseCategory_RoundTrips(t *testing.T) {
	for _, c := range []leave.Category{
		leave.CategoryCasual, leave.CategorySick, leave.CategoryPrivilege,
		leave.CategoryLossOfPay, leave.CategoryBereavement,
	} {
		assert.Equal(t, c, leave.ParseCategory(string(c)))
	}
}

func TestParseDayTypeAndStatus(t *testing.T) {
	assert.Equal(t, leave.HalfDay, leave.ParseDayType("Half Day"))
	assert.Equal(t, leave.HalfDay, leave.ParseDayType("HALF_DAY"))
	assert.Equal(t, leave.FullDay, leave.ParseDayType("full"))
	assert.Equal(t, leave.FullDay, leave.ParseDayType(""))

	assert.Equal(t, leave.StatusApproved, leave.ParseStatus(" Approved "))
	assert.Equal(t, leave.StatusCanceled, leave.ParseStatus("cancelled"))
	assert.Equal(t, leave.StatusPending, leave.ParseStatus("waiting"))
}

func TestRequest_SpanValue(t *testing.T) {
	r := req("r1", leave.CategoryCasual, date(time.March, 7), date(time.March, 10), leave.HalfDay)
	assertDecimal(t, "2", r.SpanValue().Value)

	r.DayType = leave.FullDay
	assertDecimal(t, "4", r.SpanValue().Value)
}
