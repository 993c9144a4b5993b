package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"optionsdesk/internal/metrics"
	"optionsdesk/pkg/marketdata"
)

const dateLayout = "2006-01-02"

type Path string

const (
	PathPrimarySlot   Path = "primary-slot"
	PathAlternateSlot Path = "alternate-slot"
	PathDaily         Path = "daily"
)

// QueryContext is the date and slot every source call in one request uses.
type QueryContext struct {
	Requested string
	Date      string
	Slot      string
	Path      Path
	Reason    string
}

func (q QueryContext) Snapshot() marketdata.Snapshot {
	return marketdata.Snapshot{Date: q.Date, Slot: q.Slot}
}

func (q QueryContext) Model() string {
	return q.Snapshot().Model()
}

type SlotLister interface {
	ListTimeSlots(ctx context.Context, ticker, date string) ([]string, error)
}

// ResolverOptions controls the fallback order. With Intraday off the
// resolver goes straight to the daily model. With AlternateDate off only
// the primary date is probed.
type ResolverOptions struct {
	Intraday      bool
	AlternateDate bool
}

func DefaultResolverOptions() ResolverOptions {
	return ResolverOptions{Intraday: true, AlternateDate: true}
}

type Resolver struct {
	slots  SlotLister
	ticker string
	opts   ResolverOptions
	loc    *time.Location
}

func NewResolver(slots SlotLister, ticker string, opts ResolverOptions) *Resolver {
	return &Resolver{
		slots:  slots,
		ticker: ticker,
		opts:   opts,
		loc:    exchangeLocation(),
	}
}

func exchangeLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		slog.Warn("exchange time zone unavailable, using UTC", "error", err)
		return time.UTC
	}
	return loc
}

// TradingDates returns the primary and alternate candidate dates for now.
// Both are always business days.
func TradingDates(now time.Time, loc *time.Location) (primary, alternate time.Time) {
	t := now.In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

	switch day.Weekday() {
	case time.Saturday:
		primary = day.AddDate(0, 0, -1)
	case time.Sunday:
		primary = day.AddDate(0, 0, -2)
	default:
		primary = day
	}

	return primary, previousBusinessDay(primary)
}

func previousBusinessDay(day time.Time) time.Time {
	prev := day.AddDate(0, 0, -1)
	for prev.Weekday() == time.Saturday || prev.Weekday() == time.Sunday {
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}

// Resolve picks the date and intraday slot to query. It never fails: when
// no slot can be found it returns the primary date with the daily model.
func (r *Resolver) Resolve(ctx context.Context, now time.Time) QueryContext {
	local := now.In(r.loc)
	primary, alternate := TradingDates(now, r.loc)

	qc := QueryContext{
		Requested: local.Format(dateLayout),
		Date:      primary.Format(dateLayout),
	}

	var notes []string
	if qc.Requested != qc.Date {
		notes = append(notes, fmt.Sprintf("requested %s is a %s; using %s", qc.Requested, local.Weekday(), qc.Date))
	}

	qc.Path, qc.Slot, notes = r.resolveSlot(ctx, primary, alternate, notes)
	if qc.Path == PathAlternateSlot {
		qc.Date = alternate.Format(dateLayout)
	}
	qc.Reason = strings.Join(notes, "; ")

	metrics.Resolutions.WithLabelValues(string(qc.Path)).Inc()
	slog.Info("query context resolved",
		"ticker", r.ticker,
		"date", qc.Date,
		"slot", qc.Slot,
		"path", qc.Path,
		"reason", qc.Reason,
	)

	return qc
}

func (r *Resolver) resolveSlot(ctx context.Context, primary, alternate time.Time, notes []string) (Path, string, []string) {
	if !r.opts.Intraday {
		return PathDaily, "", append(notes, "intraday slot discovery disabled; using daily snapshot")
	}

	primaryDate := primary.Format(dateLayout)
	slot, note := r.latestSlot(ctx, primaryDate)
	if slot != "" {
		return PathPrimarySlot, slot, notes
	}
	notes = append(notes, note)

	if r.opts.AlternateDate {
		alternateDate := alternate.Format(dateLayout)
		slot, note = r.latestSlot(ctx, alternateDate)
		if slot != "" {
			return PathAlternateSlot, slot, append(notes, "using latest slot of "+alternateDate)
		}
		notes = append(notes, note)
	}

	return PathDaily, "", append(notes, "falling back to daily snapshot for "+primaryDate)
}

// latestSlot returns the last listed slot for date, or a note describing
// why there is none.
func (r *Resolver) latestSlot(ctx context.Context, date string) (string, string) {
	slots, err := r.slots.ListTimeSlots(ctx, r.ticker, date)
	if err != nil {
		slog.Warn("time slot listing failed", "date", date, "error", err)
		return "", fmt.Sprintf("no intraday slots for %s (%v)", date, err)
	}

	if len(slots) == 0 {
		return "", fmt.Sprintf("no intraday slots for %s", date)
	}

	return slots[len(slots)-1], ""
}
