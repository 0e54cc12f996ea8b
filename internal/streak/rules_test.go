package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/learnlit/internal/models"
)

func TestQuotaAndThreshold(t *testing.T) {
	tests := []struct {
		period    models.Period
		quota     int
		threshold int
	}{
		{models.PeriodWeek, 2, 7},
		{models.PeriodMonth, 8, 30},
		{models.PeriodYear, 96, 365},
		{models.Period("Decade"), 0, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			assert.Equal(t, tt.quota, FreezeQuota(tt.period))
			assert.Equal(t, tt.threshold, CompletionThreshold(tt.period))
		})
	}
}

func TestDayKeyOf(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, DayKey(20251231), DayKeyOf(instant, time.UTC))
	// local calendar, never UTC-normalized
	assert.Equal(t, DayKey(20260101), DayKeyOf(instant, tokyo))
}

func TestDayKeyParts(t *testing.T) {
	k := DayKey(20240229)
	assert.Equal(t, 2024, k.Year())
	assert.Equal(t, time.February, k.Month())
	assert.Equal(t, 29, k.Day())
	assert.Equal(t, "2024-02-29", k.String())
	assert.True(t, k.Date(time.UTC).Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
}

func TestDayKeyValid(t *testing.T) {
	valid := []DayKey{20240229, 20250101, 19991231}
	invalid := []DayKey{0, -1, 20250229, 20251301, 20250100, 20250431}

	for _, k := range valid {
		assert.True(t, k.Valid(), "%d should be valid", k)
	}
	for _, k := range invalid {
		assert.False(t, k.Valid(), "%d should be invalid", k)
	}
}

func TestKeysFor(t *testing.T) {
	k := KeysFor("Spanish", models.PeriodMonth)
	assert.Equal(t, "learn-Spanish-Month", k.Prefix)
	assert.Equal(t, "learn-Spanish-Month-logs", k.Logs)
	assert.Equal(t, "learn-Spanish-Month-learned", k.Learned)
	assert.Equal(t, "learn-Spanish-Month-frozen", k.Frozen)
	assert.Equal(t, "learn-Spanish-Month-lastDate", k.LastDate)
	assert.Len(t, k.All(), 4)
}

func TestNamespaceOf(t *testing.T) {
	for _, key := range KeysFor("Old-English", models.PeriodYear).All() {
		ns, ok := NamespaceOf(key)
		assert.True(t, ok, key)
		assert.Equal(t, "learn-Old-English-Year", ns)
	}

	for _, key := range []string{"learn--logs", "settings-timezone", "learn-Go-Week-streak", "learn-Go-Week"} {
		_, ok := NamespaceOf(key)
		assert.False(t, ok, key)
	}
}
