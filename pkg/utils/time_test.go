package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatInSaoPaulo(t *testing.T) {
	SetTimeZone("America/Sao_Paulo")
	ts := time.Date(2026, 3, 5, 14, 7, 9, 0, time.UTC)

	assert.Equal(t, "05/03/2026", FormatDate(ts))
	assert.Equal(t, "05/03/2026, 11:07", FormatDateTime(ts))
	assert.Equal(t, "11:07:09", FormatClock(ts))
	assert.Equal(t, "11:07", FormatTime(ts))
}

func TestUnknownZoneFallsBack(t *testing.T) {
	SetTimeZone("Nowhere/Invalid")
	defer SetTimeZone(DefaultTimeZone)

	ts := time.Date(2026, 3, 5, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "05/03/2026, 00:00", FormatDateTime(ts))
}

func TestParseDate(t *testing.T) {
	SetTimeZone(DefaultTimeZone)

	d, err := ParseDate("2026-10-18")
	assert.NoError(t, err)
	assert.Equal(t, "18/10/2026, 00:00", FormatDateTime(d))

	d, err = ParseDate("2026-10-18T15:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, "18/10/2026, 12:30", FormatDateTime(d))

	_, err = ParseDate("18/10/2026")
	assert.Error(t, err)

	empty := "  "
	p, err := ParseOptionalDate(&empty)
	assert.NoError(t, err)
	assert.Nil(t, p)
	p, err = ParseOptionalDate(nil)
	assert.NoError(t, err)
	assert.Nil(t, p)
}
