// utils/money.go
package utils

import "math"

// RoundMoney rounds to two decimal places, the precision of all stored
// amounts and percentages
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
