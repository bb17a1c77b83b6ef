// Package report aggregates the sales history into dashboard and period
// reports and renders them for export.
package report

import (
	"time"

	"github.com/dukerupert/megapdv/internal/domain"
)

// Period selects the window a report covers.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ErrInvalidPeriod is returned for an unknown period name.
var ErrInvalidPeriod = &domain.Error{Code: domain.EINVALID, Message: "Period must be today, week, month or year"}

// Periods returns every period in display order.
func Periods() []Period {
	return []Period{PeriodToday, PeriodWeek, PeriodMonth, PeriodYear}
}

// ParsePeriod converts a raw string to a Period. Empty means today.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return PeriodToday, nil
	}
	p := Period(s)
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	}
	return "", ErrInvalidPeriod
}

// Label is the display name of the period.
func (p Period) Label() string {
	switch p {
	case PeriodToday:
		return "Hoje"
	case PeriodWeek:
		return "Últimos 7 dias"
	case PeriodMonth:
		return "Este mês"
	case PeriodYear:
		return "Este ano"
	default:
		return string(p)
	}
}

// Range returns the window for the period ending at now. Both ends are
// inclusive, matching InRange, so a sale stamped exactly at now counts.
// The week is the last seven calendar days including today.
func (p Period) Range(now time.Time) (from, to time.Time) {
	today := startOfDay(now)
	to = now

	switch p {
	case PeriodWeek:
		from = today.AddDate(0, 0, -6)
	case PeriodMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		from = today
	}
	return from, to
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// InRange filters sales created in [from, to], both ends included.
func InRange(sales []domain.Sale, from, to time.Time) []domain.Sale {
	out := make([]domain.Sale, 0, len(sales))
	for _, s := range sales {
		if s.CreatedAt.Before(from) || s.CreatedAt.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out
}
