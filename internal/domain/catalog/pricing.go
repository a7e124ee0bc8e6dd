package catalog

import "fmt"

// Estimate prices a booking of the given length in VND.
//
//	FLAT        price, as long as the booking fits DurationMinutes
//	HOURLY      price_per_hour * minutes / 60
//	FIRST_HOUR  price for the first hour, then price_per_hour pro rata
//
// Pro rata amounts round half up to the nearest dong.
func (c *Combo) Estimate(minutes int) (int64, error) {
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: %d minutes", ErrDurationNotCovered, minutes)
	}
	m := int64(minutes)

	switch c.PriceType {
	case PriceFlat:
		if c.DurationMinutes > 0 && minutes > c.DurationMinutes {
			return 0, fmt.Errorf("%w: %d > %d minutes", ErrDurationNotCovered, minutes, c.DurationMinutes)
		}
		return c.Price, nil
	case PriceHourly:
		return proRata(c.PricePerHour, m), nil
	case PriceFirstHour:
		extra := m - 60
		if extra < 0 {
			extra = 0
		}
		return c.Price + proRata(c.PricePerHour, extra), nil
	default:
		return 0, ErrInvalidPriceType
	}
}

func proRata(perHour, minutes int64) int64 {
	return (perHour*minutes + 30) / 60
}
