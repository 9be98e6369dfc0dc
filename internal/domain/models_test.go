package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	period, err := ParsePeriod("2025-08")
	require.NoError(t, err)
	assert.Equal(t, 2025, period.Year)
	assert.Equal(t, time.August, period.Month)

	_, err = ParsePeriod("August 2025")
	require.Error(t, err)
	_, err = ParsePeriod("")
	require.Error(t, err)
}

func TestFilingPeriodFormats(t *testing.T) {
	period := FilingPeriod{Year: 2025, Month: time.August}

	assert.Equal(t, "August", period.MonthName())
	assert.Equal(t, "082025", period.MMYYYY())
	assert.Equal(t, "August 2025", period.Display())

	december := FilingPeriod{Year: 2024, Month: time.December}
	assert.Equal(t, "122024", december.MMYYYY())
}
