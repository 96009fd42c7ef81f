// ABOUTME: Plausibility checks for body measurements
// ABOUTME: Bounds match what the profile tools accept from callers

package nutrition

// ValidWeight accepts weights in (0, 1000] kg.
func ValidWeight(kg float64) bool {
	return kg > 0 && kg <= 1000
}

// ValidHeight accepts heights in [50, 300] cm.
func ValidHeight(cm float64) bool {
	return cm >= 50 && cm <= 300
}

// ValidAge accepts ages in [1, 150] years.
func ValidAge(years int) bool {
	return years >= 1 && years <= 150
}

// ValidBodyFatPercentage accepts percentages in [0, 100].
func ValidBodyFatPercentage(pct float64) bool {
	return pct >= 0 && pct <= 100
}
