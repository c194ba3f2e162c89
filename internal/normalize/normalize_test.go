package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	for _, raw := range []string{"gbp", "GBP", " usd ", "eur", "AUD"} {
		_, err := Currency(raw)
		assert.NoError(t, err, raw)
	}
	got, err := Currency("usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", got)

	_, err = Currency("JPY")
	require.Error(t, err)
	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "currency", ve.Field)
}

func TestEventType(t *testing.T) {
	got, err := EventType(" Concert ")
	require.NoError(t, err)
	assert.Equal(t, "concert", got)

	for _, raw := range []string{"festival", "private", "open_mic", "livestream"} {
		_, err := EventType(raw)
		assert.NoError(t, err, raw)
	}

	_, err = EventType("rave")
	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "event_type", ve.Field)
}

func TestFee(t *testing.T) {
	d, err := Fee(19.999)
	require.NoError(t, err)
	assert.Equal(t, "20", d.String())

	// Round half away from zero at the second decimal place.
	d, err = Fee(150.505)
	require.NoError(t, err)
	assert.Equal(t, "150.51", d.String())

	// Trailing zeros are trimmed by String; the stored value is still 2 dp.
	d, err = Fee(150.504)
	require.NoError(t, err)
	assert.Equal(t, "150.5", d.String())

	d, err = Fee(0)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = Fee(-1)
	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "fee", ve.Field)

	_, err = Fee(1_000_001)
	require.Error(t, err)
}

func TestTimezone(t *testing.T) {
	loc, err := Timezone("Europe/London")
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", loc.String())

	_, err = Timezone("")
	require.Error(t, err)

	_, err = Timezone("Mars/Olympus_Mons")
	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "timezone", ve.Field)
}

func TestURL(t *testing.T) {
	u, err := URL("stream_url", " https://live.example.com/gig ")
	require.NoError(t, err)
	assert.Equal(t, "https://live.example.com/gig", u)

	for _, raw := range []string{"ftp://example.com", "example.com/path", "https://", "not a url at all ://"} {
		_, err := URL("stream_url", raw)
		assert.Error(t, err, raw)
	}
}

func TestSameDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 23:00 and 23:30 UTC are the same evening in New York even though a
	// naive UTC comparison would split them from the next morning.
	start := time.Date(2026, 7, 10, 23, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 11, 1, 30, 0, 0, time.UTC)
	assert.NoError(t, SameDay(start, end, ny))

	// In UTC those instants straddle midnight.
	assert.Error(t, SameDay(start, end, time.UTC))

	// A genuinely cross-day gig fails in its own zone too.
	end = time.Date(2026, 7, 11, 9, 0, 0, 0, time.UTC)
	assert.Error(t, SameDay(start, end, ny))
}
