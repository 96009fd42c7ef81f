// ABOUTME: Tests for BMR/TDEE calculation and measurement validators
// ABOUTME: Uses fixed reference values computed from the Harris-Benedict equations

package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBMR(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		height float64
		age    int
		gender Gender
		want   int
	}{
		{name: "male 70kg", weight: 70, height: 175, age: 30, gender: GenderMale, want: 1696},
		{name: "male reference", weight: 80, height: 180, age: 30, gender: GenderMale, want: 1854},
		{name: "female reference", weight: 60, height: 165, age: 25, gender: GenderFemale, want: 1405},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateBMR(tt.weight, tt.height, tt.age, tt.gender))
		})
	}
}

func TestCalculateTDEE(t *testing.T) {
	tests := []struct {
		level ActivityLevel
		want  int
	}{
		{ActivitySedentary, 2225},
		{ActivityLight, 2549},
		{ActivityModerate, 2874},
		{ActivityActive, 3198},
		{ActivityVeryActive, 3523},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTDEE(1854, tt.level))
		})
	}
}

func TestCalculateTDEE_ReferenceBMR(t *testing.T) {
	assert.Equal(t, 1800, CalculateTDEE(1500, ActivitySedentary))
	assert.Equal(t, 2325, CalculateTDEE(1500, ActivityModerate))
	assert.Equal(t, 2850, CalculateTDEE(1500, ActivityVeryActive))
}

func TestCalculateProfileMetrics(t *testing.T) {
	body := Body{HeightCM: 165, Age: 25, Gender: GenderFemale, ActivityLevel: ActivitySedentary}

	t.Run("with weight", func(t *testing.T) {
		w := 60.0
		m := CalculateProfileMetrics(body, &w)
		require.NotNil(t, m.BMRCalories)
		require.NotNil(t, m.TDEECalories)
		assert.Equal(t, 1405, *m.BMRCalories)
		assert.Equal(t, 1686, *m.TDEECalories)
		assert.False(t, m.Empty())
	})

	t.Run("nil weight", func(t *testing.T) {
		assert.True(t, CalculateProfileMetrics(body, nil).Empty())
	})

	t.Run("zero weight", func(t *testing.T) {
		zero := 0.0
		assert.True(t, CalculateProfileMetrics(body, &zero).Empty())
	})
}

func TestActivityLevelValid(t *testing.T) {
	for _, l := range ActivityLevels() {
		assert.True(t, l.Valid(), l)
		assert.Greater(t, l.Multiplier(), 1.0)
	}
	assert.False(t, ActivityLevel("couch").Valid())
	assert.Zero(t, ActivityLevel("couch").Multiplier())
	assert.True(t, GenderMale.Valid())
	assert.False(t, Gender("other").Valid())
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidWeight(0.1))
	assert.True(t, ValidWeight(1000))
	assert.False(t, ValidWeight(0))
	assert.False(t, ValidWeight(1000.01))
	assert.False(t, ValidWeight(1001))

	assert.True(t, ValidHeight(50))
	assert.True(t, ValidHeight(300))
	assert.False(t, ValidHeight(49.9))
	assert.False(t, ValidHeight(49))
	assert.False(t, ValidHeight(301))

	assert.True(t, ValidAge(1))
	assert.True(t, ValidAge(150))
	assert.False(t, ValidAge(0))
	assert.False(t, ValidAge(151))

	assert.True(t, ValidBodyFatPercentage(0))
	assert.True(t, ValidBodyFatPercentage(100))
	assert.False(t, ValidBodyFatPercentage(-0.1))
	assert.False(t, ValidBodyFatPercentage(-1))
	assert.False(t, ValidBodyFatPercentage(100.5))
}
