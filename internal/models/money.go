package models

import "fmt"

// FormatNumber formats an integer with thousands separators.
func FormatNumber(n int) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return sign + str
	}

	result := ""
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(digit)
	}
	return sign + result
}

// FormatMoney formats an amount in thousands of dollars, e.g. 12500 -> "$12.5M"
// and 750 -> "$750K".
func FormatMoney(thousands int) string {
	sign := ""
	if thousands < 0 {
		sign, thousands = "-", -thousands
	}
	if thousands >= 1000 {
		m := fmt.Sprintf("%.2f", float64(thousands)/1000)
		for m[len(m)-1] == '0' {
			m = m[:len(m)-1]
		}
		if m[len(m)-1] == '.' {
			m = m[:len(m)-1]
		}
		return fmt.Sprintf("%s$%sM", sign, m)
	}
	return fmt.Sprintf("%s$%dK", sign, thousands)
}
