package mathutil

import "strconv"

// Round rounds x to the given number of decimals using the shortest correctly
// rounded decimal form, so exact binary halves round to even (2.675 -> 2.67).
func Round(x float64, places int) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// Percent returns part/total*100, or 0 for an empty total.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
