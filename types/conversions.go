package types

import (
	"math"
	"strconv"
	"strings"
)

// CoerceCellValue converts text that fully parses as a finite number into a float64 so that
// numeric columns stay numeric when the grid emits text. Other values are returned unchanged.
func CoerceCellValue(value interface{}) interface{} {
	text, ok := value.(string)
	if !ok {
		return value
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return value
	}

	number, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return value
	}
	return number
}
