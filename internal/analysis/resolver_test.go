package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

type fakeSlots struct {
	slots map[string][]string
	errs  map[string]error
	calls []string
}

func (f *fakeSlots) ListTimeSlots(ctx context.Context, ticker, date string) ([]string, error) {
	f.calls = append(f.calls, date)
	return f.slots[date], f.errs[date]
}

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	assert.Equal(t, nil, err)
	return loc
}

func TestTradingDates(t *testing.T) {
	ny := newYork(t)

	tests := []struct {
		name          string
		now           time.Time
		wantPrimary   string
		wantAlternate string
	}{
		{name: "friday", now: time.Date(2025, 1, 10, 11, 0, 0, 0, ny), wantPrimary: "2025-01-10", wantAlternate: "2025-01-09"},
		{name: "saturday", now: time.Date(2025, 1, 11, 11, 0, 0, 0, ny), wantPrimary: "2025-01-10", wantAlternate: "2025-01-09"},
		{name: "sunday", now: time.Date(2025, 1, 12, 11, 0, 0, 0, ny), wantPrimary: "2025-01-10", wantAlternate: "2025-01-09"},
		{name: "monday", now: time.Date(2025, 1, 13, 11, 0, 0, 0, ny), wantPrimary: "2025-01-13", wantAlternate: "2025-01-10"},
		{name: "wednesday", now: time.Date(2025, 1, 8, 11, 0, 0, 0, ny), wantPrimary: "2025-01-08", wantAlternate: "2025-01-07"},
		{name: "utc evening is still friday in new york", now: time.Date(2025, 1, 11, 3, 0, 0, 0, time.UTC), wantPrimary: "2025-01-10", wantAlternate: "2025-01-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, alternate := TradingDates(tt.now, ny)
			assert.Equal(t, tt.wantPrimary, primary.Format(dateLayout))
			assert.Equal(t, tt.wantAlternate, alternate.Format(dateLayout))
		})
	}
}

func TestTradingDatesNeverWeekend(t *testing.T) {
	ny := newYork(t)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for h := 0; h < 24*21; h++ {
		now := start.Add(time.Duration(h) * time.Hour)
		primary, alternate := TradingDates(now, ny)

		for _, d := range []time.Time{primary, alternate} {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				t.Fatalf("now=%s resolved weekend date %s", now, d.Format(dateLayout))
			}
		}
		assert.Equal(t, true, alternate.Before(primary))
	}
}

func TestResolvePrimarySlot(t *testing.T) {
	slots := &fakeSlots{slots: map[string][]string{
		"2025-01-10": {"2025-01-10 09:45:00", "2025-01-10 12:00:00", "2025-01-10 15:30:00"},
	}}
	r := NewResolver(slots, "SPX", DefaultResolverOptions())

	qc := r.Resolve(context.Background(), time.Date(2025, 1, 10, 16, 0, 0, 0, newYork(t)))

	assert.Equal(t, "2025-01-10", qc.Date)
	assert.Equal(t, "2025-01-10 15:30:00", qc.Slot)
	assert.Equal(t, PathPrimarySlot, qc.Path)
	assert.Equal(t, "", qc.Reason)
	assert.Equal(t, "intraday", qc.Model())
	assert.Equal(t, []string{"2025-01-10"}, slots.calls)
}

func TestResolveAlternateDate(t *testing.T) {
	slots := &fakeSlots{slots: map[string][]string{
		"2025-01-10": {},
		"2025-01-09": {"2025-01-09 10:00:00", "2025-01-09 16:00:00"},
	}}
	r := NewResolver(slots, "SPX", DefaultResolverOptions())

	qc := r.Resolve(context.Background(), time.Date(2025, 1, 10, 8, 0, 0, 0, newYork(t)))

	assert.Equal(t, "2025-01-09", qc.Date)
	assert.Equal(t, "2025-01-10", qc.Requested)
	assert.Equal(t, "2025-01-09 16:00:00", qc.Slot)
	assert.Equal(t, PathAlternateSlot, qc.Path)
	assert.Equal(t, true, strings.Contains(qc.Reason, "no intraday slots for 2025-01-10"))
	assert.Equal(t, true, strings.Contains(qc.Reason, "using latest slot of 2025-01-09"))
	assert.Equal(t, []string{"2025-01-10", "2025-01-09"}, slots.calls)
}

func TestResolveDailyWhenNoSlots(t *testing.T) {
	slots := &fakeSlots{
		slots: map[string][]string{},
		errs:  map[string]error{"2025-01-09": errors.New("HTTP 500: upstream error")},
	}
	r := NewResolver(slots, "SPX", DefaultResolverOptions())

	qc := r.Resolve(context.Background(), time.Date(2025, 1, 10, 8, 0, 0, 0, newYork(t)))

	assert.Equal(t, "2025-01-10", qc.Date)
	assert.Equal(t, "", qc.Slot)
	assert.Equal(t, PathDaily, qc.Path)
	assert.Equal(t, "daily", qc.Model())
	assert.Equal(t, true, strings.Contains(qc.Reason, "HTTP 500"))
	assert.Equal(t, true, strings.Contains(qc.Reason, "falling back to daily snapshot for 2025-01-10"))
	assert.Equal(t, 2, len(slots.calls))
}

func TestResolvePrimaryErrorFallsBack(t *testing.T) {
	slots := &fakeSlots{
		slots: map[string][]string{"2025-01-09": {"2025-01-09 15:45:00"}},
		errs:  map[string]error{"2025-01-10": errors.New("timeout")},
	}
	r := NewResolver(slots, "SPX", DefaultResolverOptions())

	qc := r.Resolve(context.Background(), time.Date(2025, 1, 10, 8, 0, 0, 0, newYork(t)))

	assert.Equal(t, PathAlternateSlot, qc.Path)
	assert.Equal(t, "2025-01-09", qc.Date)
	assert.Equal(t, "2025-01-09 15:45:00", qc.Slot)
}

func TestResolveWeekend(t *testing.T) {
	slots := &fakeSlots{slots: map[string][]string{"2025-01-10": {"2025-01-10 16:00:00"}}}
	r := NewResolver(slots, "SPX", DefaultResolverOptions())

	qc := r.Resolve(context.Background(), time.Date(2025, 1, 12, 10, 0, 0, 0, newYork(t)))

	assert.Equal(t, "2025-01-12", qc.Requested)
	assert.Equal(t, "2025-01-10", qc.Date)
	assert.Equal(t, PathPrimarySlot, qc.Path)
	assert.Equal(t, "requested 2025-01-12 is a Sunday; using 2025-01-10", qc.Reason)
}

func TestResolveWithoutAlternateDate(t *testing.T) {
	slots := &fakeSlots{slots: map[string][]string{"2025-01-09": {"2025-01-09 16:00:00"}}}
	r := NewResolver(slots, "SPX", ResolverOptions{Intraday: true, AlternateDate: false})

	qc := r.Resolve(context.Background(), time.Date(2025, 1, 10, 8, 0, 0, 0, newYork(t)))

	assert.Equal(t, PathDaily, qc.Path)
	assert.Equal(t, "2025-01-10", qc.Date)
	assert.Equal(t, []string{"2025-01-10"}, slots.calls)
}

func TestResolveIntradayDisabled(t *testing.T) {
	slots := &fakeSlots{slots: map[string][]string{"2025-01-10": {"2025-01-10 16:00:00"}}}
	r := NewResolver(slots, "SPX", ResolverOptions{})

	qc := r.Resolve(context.Background(), time.Date(2025, 1, 10, 12, 0, 0, 0, newYork(t)))

	assert.Equal(t, PathDaily, qc.Path)
	assert.Equal(t, "", qc.Slot)
	assert.Equal(t, 0, len(slots.calls))
}
