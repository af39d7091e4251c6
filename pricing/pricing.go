// Package pricing computes the total due for a stay from the unit's fee
// schedule. It performs no I/O; schedules come from the accommodation tables.
package pricing

import (
	"errors"
	"math"
)

// Kind is the category of bookable unit.
type Kind string

const (
	KindRoom       Kind = "room"
	KindTent       Kind = "tent"
	KindExperience Kind = "experience"
)

// DateRanged reports whether the kind is priced per night between check-in
// and check-out. Experiences are fixed-duration packages.
func (k Kind) DateRanged() bool {
	return k == KindRoom || k == KindTent
}

// FeeSchedule holds the pricing parameters of one accommodation type.
// Rates are trusted configuration and are not validated at runtime.
type FeeSchedule struct {
	BaseNightlyRate         float64
	ExtraPersonFee          float64
	BaseGuestsIncluded      int
	CityTaxPerNightPerGuest float64
	MaxNights               int
	MaxUnits                int
}

// Breakdown is the itemized result of a quote. CityTax is reported as its
// own line, never folded silently into the base.
type Breakdown struct {
	Base     float64 `json:"base"`
	ExtraFee float64 `json:"extraFee"`
	CityTax  float64 `json:"cityTax"`
	Total    float64 `json:"total"`
}

var (
	ErrInvalidNights = errors.New("nights must be at least 1")
	ErrInvalidGuests = errors.New("guest count must be at least 1")
)

// Quote prices a stay. The extra-person fee applies per night for each guest
// beyond the included count; city tax applies per night per guest when
// configured. All lines round half-up to 2 decimals.
func Quote(kind Kind, sched FeeSchedule, nights, guests int) (Breakdown, error) {
	if kind.DateRanged() && nights < 1 {
		return Breakdown{}, ErrInvalidNights
	}
	if guests < 1 {
		return Breakdown{}, ErrInvalidGuests
	}
	if !kind.DateRanged() {
		// Fixed-duration package: priced as a single unit.
		nights = 1
	}

	base := sched.BaseNightlyRate * float64(nights)

	extraGuests := guests - sched.BaseGuestsIncluded
	if extraGuests < 0 {
		extraGuests = 0
	}
	extraFee := float64(extraGuests) * sched.ExtraPersonFee * float64(nights)

	var cityTax float64
	if sched.CityTaxPerNightPerGuest > 0 {
		cityTax = sched.CityTaxPerNightPerGuest * float64(nights) * float64(guests)
	}

	b := Breakdown{
		Base:     round2(base),
		ExtraFee: round2(extraFee),
		CityTax:  round2(cityTax),
	}
	b.Total = round2(base + extraFee + cityTax)
	return b, nil
}

// round2 rounds half-up to 2 decimal places.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
