package service

import (
	"fmt"
	"strconv"
)

// MinutesRemaining: minutos enteros hasta end, nunca negativo.
func MinutesRemaining(end, now int64) int64 {
	rem := end - now
	if rem < 0 {
		return 0
	}
	return rem / 60
}

// FormatRotationStatus: "Ends in 1h 15m » Next: Storm Point" / "Ends in 40m » Next: ...".
func FormatRotationStatus(minutes int64, next string) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("Ends in %dh %dm » Next: %s", h, m, next)
	}
	return fmt.Sprintf("Ends in %dm » Next: %s", m, next)
}

func RotationNickname(current string) string {
	return "Ranked: " + current
}

// FormatPlayerStatus: "Master 1 - 15,000 RP".
func FormatPlayerStatus(rank string, div int, score int64) string {
	return fmt.Sprintf("%s %d - %s RP", rank, div, FormatThousands(score))
}

// FormatThousands agrega comas cada 3 dígitos (1234567 -> 1,234,567).
func FormatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return sign + string(out)
}
