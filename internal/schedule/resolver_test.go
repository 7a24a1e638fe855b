package schedule

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var utc8 = time.FixedZone("UTC+8", 8*60*60)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, utc8)
}

func TestResolveScheduledSlots(t *testing.T) {
	t.Parallel()

	r := NewResolver(DefaultPolicy(), utc8, nil)

	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
		wantSlot  string
	}{
		{"night early", at(2, 7, 0), at(2, 0, 0), at(2, 8, 0), "night"},
		{"night late", at(2, 8, 59), at(2, 0, 0), at(2, 8, 0), "night"},
		{"morning early", at(2, 15, 0), at(2, 8, 0), at(2, 16, 0), "morning"},
		{"morning late", at(2, 16, 45), at(2, 8, 0), at(2, 16, 0), "morning"},
		{"evening before midnight", at(2, 23, 10), at(2, 16, 0), at(3, 0, 0), "evening"},
		{"evening after midnight", at(3, 0, 20), at(2, 16, 0), at(3, 0, 0), "evening"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := r.Resolve(tc.now)
			assert.True(t, w.Start.Equal(tc.wantStart), "start %v, want %v", w.Start, tc.wantStart)
			assert.True(t, w.End.Equal(tc.wantEnd), "end %v, want %v", w.End, tc.wantEnd)
			assert.Equal(t, tc.wantSlot, w.Slot)
			assert.False(t, w.OffSchedule())
		})
	}
}

func TestResolveEveryHour(t *testing.T) {
	t.Parallel()

	r := NewResolver(DefaultPolicy(), utc8, nil)
	for h := 0; h < 24; h++ {
		now := at(10, h, 30)
		w := r.Resolve(now)

		switch {
		case h >= 7 && h < 9:
			assert.Equal(t, "night", w.Slot, "hour %d", h)
		case h >= 15 && h < 17:
			assert.Equal(t, "morning", w.Slot, "hour %d", h)
		case h >= 23 || h < 1:
			assert.Equal(t, "evening", w.Slot, "hour %d", h)
		default:
			assert.True(t, w.OffSchedule(), "hour %d", h)
			assert.True(t, w.End.Equal(now), "hour %d", h)
			assert.True(t, w.Start.Equal(now.Add(-24*time.Hour)), "hour %d", h)
		}
	}
}

func TestResolveFallbackLogsDiagnostic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewResolver(DefaultPolicy(), utc8, logger)

	w := r.Resolve(at(5, 12, 0))
	require.True(t, w.OffSchedule())
	assert.Contains(t, buf.String(), "outside standard schedule")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestResolveConvertsIntoTargetZone(t *testing.T) {
	t.Parallel()

	r := NewResolver(DefaultPolicy(), utc8, nil)
	// 00:30 UTC is 08:30 in UTC+8.
	w := r.Resolve(time.Date(2024, time.January, 2, 0, 30, 0, 0, time.UTC))
	assert.Equal(t, "night", w.Slot)
	assert.True(t, w.End.Equal(at(2, 8, 0)))
	assert.Equal(t, utc8, w.End.Location())
}

func TestSlotsPartitionTheDay(t *testing.T) {
	t.Parallel()

	r := NewResolver(DefaultPolicy(), utc8, nil)
	night := r.Resolve(at(2, 8, 0))
	morning := r.Resolve(at(2, 16, 0))
	evening := r.Resolve(at(2, 23, 30))

	assert.True(t, night.End.Equal(morning.Start))
	assert.True(t, morning.End.Equal(evening.Start))
	assert.Equal(t, 24*time.Hour, evening.End.Sub(night.Start))
}

func TestCustomPolicy(t *testing.T) {
	t.Parallel()

	policy := Policy{
		Slots: []Slot{{Name: "noon", Boundary: 12 * time.Hour, Lead: 30 * time.Minute, Lag: 0, Span: 12 * time.Hour}},
	}
	r := NewResolver(policy, time.UTC, nil)

	w := r.Resolve(time.Date(2024, 3, 1, 11, 45, 0, 0, time.UTC))
	assert.Equal(t, "noon", w.Slot)
	assert.True(t, w.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))

	w = r.Resolve(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	assert.True(t, w.OffSchedule(), "zero lag excludes the boundary itself")
	assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
}

func TestNextBoundary(t *testing.T) {
	t.Parallel()

	r := NewResolver(DefaultPolicy(), utc8, nil)

	next, ok := r.NextBoundary(at(2, 9, 0))
	require.True(t, ok)
	assert.True(t, next.Equal(at(2, 16, 0)))

	next, ok = r.NextBoundary(at(2, 16, 0))
	require.True(t, ok)
	assert.True(t, next.Equal(at(3, 0, 0)))

	_, ok = NewResolver(Policy{}, utc8, nil).NextBoundary(at(2, 9, 0))
	assert.False(t, ok)
}

func TestPolicyValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultPolicy().Validate())

	bad := Policy{Slots: []Slot{{Name: "x", Boundary: 25 * time.Hour, Span: time.Hour}}}
	assert.Error(t, bad.Validate())

	bad = Policy{Slots: []Slot{{Name: "x", Boundary: time.Hour}}}
	assert.Error(t, bad.Validate())
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	d, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour+30*time.Minute, d)

	for _, in := range []string{"8", "24:00", "07:60", "ab:00"} {
		_, err := ParseClock(in)
		assert.Error(t, err, in)
	}
}

func TestParseZone(t *testing.T) {
	t.Parallel()

	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in         string
		wantOffset int
	}{
		{"", 8 * 3600},
		{"UTC", 0},
		{"UTC+8", 8 * 3600},
		{"+08:00", 8 * 3600},
		{"-0530", -(5*3600 + 30*60)},
		{"utc-3", -3 * 3600},
	}
	for _, tc := range tests {
		loc, err := ParseZone(tc.in)
		require.NoError(t, err, tc.in)
		_, offset := ref.In(loc).Zone()
		assert.Equal(t, tc.wantOffset, offset, tc.in)
	}

	_, err := ParseZone("Nowhere/Special")
	assert.Error(t, err)
	_, err = ParseZone("+99")
	assert.Error(t, err)
}
