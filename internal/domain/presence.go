package domain

import (
	"errors"
	"fmt"
)

// NickResult es el resultado de aplicar el nickname en un guild.
type NickResult struct {
	GuildID   string
	GuildName string
	Skipped   bool // ya tenía ese nick
	Forbidden bool // sin permiso "Change Nickname" en ese guild
	Err       error
}

// SummarizeNicks cuenta ok / skipped / failed (forbidden incluido en failed).
func SummarizeNicks(rs []NickResult) (ok, skipped, failed int) {
	for _, r := range rs {
		switch {
		case r.Err != nil:
			failed++
		case r.Skipped:
			skipped++
		default:
			ok++
		}
	}
	return ok, skipped, failed
}

// NickFailures junta los errores que vale la pena reintentar. Un guild sin
// permiso cuenta como resuelto: reintentarlo no cambia nada.
func NickFailures(rs []NickResult) error {
	var errs []error
	for _, r := range rs {
		if r.Err != nil && !r.Forbidden {
			errs = append(errs, fmt.Errorf("guild %s: %w", r.GuildID, r.Err))
		}
	}
	return errors.Join(errs...)
}
