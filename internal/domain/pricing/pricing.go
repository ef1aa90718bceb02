package pricing

import "math"

// ParkingType selects which rate column applies.
type ParkingType string

const (
	ParkingInternal ParkingType = "internal"
	ParkingExternal ParkingType = "external"
)

// PaymentMethod is how the customer intends to pay.
type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
)

// BookingType classifies the pricing branch a stay was billed under.
type BookingType string

const (
	BookingDay     BookingType = "day"
	BookingEvent   BookingType = "event"
	BookingMonthly BookingType = "monthly"
)

// RateTable holds a rate pair keyed by parking type.
type RateTable struct {
	Internal float64
	External float64
}

// For returns the rate for the given parking type.
func (r RateTable) For(pt ParkingType) float64 {
	if pt == ParkingInternal {
		return r.Internal
	}
	return r.External
}

// Config is the immutable pricing configuration a quote is computed against.
// Callers build it once from their configuration source; the engine never
// reaches into ambient state.
type Config struct {
	DayRate              RateTable
	MonthlyRate          RateTable
	EventRate            RateTable
	MonthlyThresholdDays int
	EventDates           DateSet
	OnlineDiscountOn     bool
	OnlineDiscountPct    float64
	Currency             string
}

// Round2 rounds to 2 decimal places, half away from zero. All currency
// amounts the engine produces pass through this exactly once.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
