package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteBaseOnly(t *testing.T) {
	sched := FeeSchedule{
		BaseNightlyRate:    100,
		ExtraPersonFee:     20,
		BaseGuestsIncluded: 2,
	}

	b, err := Quote(KindRoom, sched, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 300.00, b.Base)
	assert.Equal(t, 0.00, b.ExtraFee)
	assert.Equal(t, 0.00, b.CityTax)
	assert.Equal(t, 300.00, b.Total)
}

func TestQuoteExtraGuestIsPerNight(t *testing.T) {
	sched := FeeSchedule{
		BaseNightlyRate:    100,
		ExtraPersonFee:     20,
		BaseGuestsIncluded: 2,
	}

	b, err := Quote(KindRoom, sched, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 60.00, b.ExtraFee) // 1 extra guest x 20 x 3 nights
	assert.Equal(t, 360.00, b.Total)
}

func TestQuoteCityTaxPerNightPerGuest(t *testing.T) {
	sched := FeeSchedule{
		BaseNightlyRate:         100,
		ExtraPersonFee:          20,
		BaseGuestsIncluded:      2,
		CityTaxPerNightPerGuest: 2.5,
	}

	b, err := Quote(KindRoom, sched, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 22.50, b.CityTax) // 2.5 x 3 nights x 3 guests
	assert.Equal(t, 382.50, b.Total)
}

func TestQuoteRejectsInvalidStay(t *testing.T) {
	sched := FeeSchedule{BaseNightlyRate: 100, BaseGuestsIncluded: 2}

	_, err := Quote(KindRoom, sched, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidNights)

	_, err = Quote(KindTent, sched, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidNights)

	_, err = Quote(KindRoom, sched, 2, 0)
	assert.ErrorIs(t, err, ErrInvalidGuests)
}

func TestQuoteExperienceIgnoresNights(t *testing.T) {
	// Fixed-duration packages are priced as a single unit regardless of the
	// date range the caller supplies.
	sched := FeeSchedule{BaseNightlyRate: 450, ExtraPersonFee: 100, BaseGuestsIncluded: 2}

	b, err := Quote(KindExperience, sched, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 450.00, b.Base)
	assert.Equal(t, 100.00, b.ExtraFee)
	assert.Equal(t, 550.00, b.Total)
}

func TestQuoteRoundsToTwoDecimals(t *testing.T) {
	sched := FeeSchedule{BaseNightlyRate: 33.333, BaseGuestsIncluded: 2}

	b, err := Quote(KindRoom, sched, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.00, b.Total) // 99.999 rounds up
}
