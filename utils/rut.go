package utils

import "strings"

// IsRutValid checks a Chilean RUT ("12.345.678-5", "123456785") with the
// mod-11 check digit. Dots and dash are optional; K is case-insensitive.
func IsRutValid(rut string) bool {
	clean := strings.ToUpper(strings.NewReplacer(".", "", "-", "", " ", "").Replace(rut))
	if len(clean) < 2 {
		return false
	}
	body, dv := clean[:len(clean)-1], clean[len(clean)-1]

	sum, weight := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		d := body[i]
		if d < '0' || d > '9' {
			return false
		}
		sum += int(d-'0') * weight
		if weight++; weight > 7 {
			weight = 2
		}
	}

	var want byte
	switch r := 11 - sum%11; r {
	case 11:
		want = '0'
	case 10:
		want = 'K'
	default:
		want = byte('0' + r)
	}
	return dv == want
}
