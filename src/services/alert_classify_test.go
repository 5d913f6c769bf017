package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Akas679/Inventory-web/src/models"
)

func TestClassify(t *testing.T) {
	planned := decimal.NewFromInt(100)

	cases := []struct {
		name      string
		current   string
		wantLevel models.AlertLevel
		breached  bool
	}{
		{"well above plan", "150", "", false},
		{"exactly at plan", "100", "", false},
		{"just below plan", "99.999", models.AlertLevelLow, true},
		{"above half", "50.001", models.AlertLevelLow, true},
		{"exactly half is critical", "50", models.AlertLevelCritical, true},
		{"below half", "10", models.AlertLevelCritical, true},
		{"zero stock", "0", models.AlertLevelCritical, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level, breached := classify(decimal.RequireFromString(tc.current), planned)
			assert.Equal(t, tc.breached, breached)
			assert.Equal(t, tc.wantLevel, level)
		})
	}
}

func TestClassifyFractionalPlan(t *testing.T) {
	// Half of 12.5 is 6.25; the threshold is evaluated at full precision.
	planned := decimal.RequireFromString("12.5")

	level, breached := classify(decimal.RequireFromString("6.25"), planned)
	assert.True(t, breached)
	assert.Equal(t, models.AlertLevelCritical, level)

	level, breached = classify(decimal.RequireFromString("6.3"), planned)
	assert.True(t, breached)
	assert.Equal(t, models.AlertLevelLow, level)
}
