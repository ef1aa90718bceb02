package pricing

// BasePrice computes the undiscounted price of a stay and classifies the
// booking.
//
// Below the monthly threshold the stay bills per day, with days matching a
// configured event date billed at the event rate. At or above the threshold
// the stay bills in whole-month blocks plus a per-day remainder; event
// pricing never applies on this branch even when event dates fall inside
// the range.
func BasePrice(totalDays, normalDays, eventDays int, pt ParkingType, cfg Config) (float64, BookingType) {
	threshold := cfg.MonthlyThresholdDays
	if threshold < 1 {
		threshold = 28
	}

	if totalDays < threshold {
		price := float64(normalDays)*cfg.DayRate.For(pt) + float64(eventDays)*cfg.EventRate.For(pt)
		bookingType := BookingDay
		if eventDays > 0 {
			bookingType = BookingEvent
		}
		return Round2(price), bookingType
	}

	months := totalDays / threshold
	extraDays := totalDays % threshold
	price := float64(months)*cfg.MonthlyRate.For(pt) + float64(extraDays)*cfg.DayRate.For(pt)
	return Round2(price), BookingMonthly
}
