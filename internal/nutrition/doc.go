// Package nutrition holds the metabolism calculator used by calorie-gateway.
//
// # Formulas
//
// Basal metabolic rate uses the revised Harris-Benedict equations:
//
//	male:   88.362 + 13.397*weight + 4.799*height - 5.677*age
//	female: 447.593 + 9.247*weight + 3.098*height - 4.330*age
//
// Total daily energy expenditure multiplies BMR by the activity level factor
// (sedentary 1.2, light 1.375, moderate 1.55, active 1.725, very_active 1.9).
// Both results are rounded to the nearest integer with halves rounded up.
//
// # Validation
//
// ValidWeight, ValidHeight, ValidAge and ValidBodyFatPercentage are pure
// predicates shared by the tracker and the tool layer.
package nutrition
