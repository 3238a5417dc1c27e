package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStatusAt(t *testing.T) {
	h := DefaultHours("UTC")
	h.Schedule["saturday"] = DaySchedule{Open: true, Start: "18:00", End: "02:00"}
	h.Schedule["monday"] = DaySchedule{Open: false, Start: "18:30", End: "23:00"}

	tests := []struct {
		name   string
		at     time.Time
		open   bool
		reason string
	}{
		{"before opening", time.Date(2024, 6, 5, 18, 0, 0, 0, time.UTC), false, "closed"},
		{"inside window", time.Date(2024, 6, 5, 19, 0, 0, 0, time.UTC), true, "schedule"},
		{"at closing", time.Date(2024, 6, 5, 23, 0, 0, 0, time.UTC), false, "closed"},
		{"closed day", time.Date(2024, 6, 3, 19, 0, 0, 0, time.UTC), false, "closed"},
		{"overnight same day", time.Date(2024, 6, 8, 23, 30, 0, 0, time.UTC), true, "schedule"},
		{"overnight next day", time.Date(2024, 6, 9, 1, 30, 0, 0, time.UTC), true, "schedule_overnight"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := h.StatusAt(tc.at, time.UTC)
			assert.Equal(t, tc.open, st.Open)
			assert.Equal(t, tc.reason, st.Reason)
		})
	}
}

func TestStatusAtManualOverride(t *testing.T) {
	closed := false
	h := DefaultHours("UTC")
	h.ManualOverrideOpen = &closed

	st := h.StatusAt(time.Date(2024, 6, 5, 19, 0, 0, 0, time.UTC), time.UTC)
	assert.False(t, st.Open)
	assert.Equal(t, "manual_override", st.Reason)
}

func TestHoursDocumentRoundTrip(t *testing.T) {
	open := true
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	h := DefaultHours("America/Sao_Paulo")
	h.ManualOverrideOpen = &open
	h.OverrideChangedAt = &now

	doc, err := ToDocument(h)
	require.NoError(t, err)
	assert.Equal(t, HoursType, doc["type"])

	var back Hours
	require.NoError(t, Decode(doc, &back))
	require.NotNil(t, back.ManualOverrideOpen)
	assert.True(t, *back.ManualOverrideOpen)
	assert.Equal(t, now, back.OverrideChangedAt.UTC())
	assert.Len(t, back.Schedule, 7)
}

func TestToTime(t *testing.T) {
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, v := range []any{
		"2024-05-01",
		"2024-05-01T00:00:00Z",
		primitive.NewDateTimeFromTime(want),
		want,
		float64(want.UnixMilli()),
	} {
		got, ok := ToTime(v, time.UTC)
		require.True(t, ok, "%T", v)
		assert.True(t, want.Equal(got), "%T", v)
	}

	_, ok := ToTime("not a date", time.UTC)
	assert.False(t, ok)
}

func TestIDVariants(t *testing.T) {
	assert.Equal(t, bson.A{"42", int64(42), float64(42)}, IDVariants("42"))
	assert.Equal(t, bson.A{float64(42), "42", int64(42)}, IDVariants(float64(42)))
	assert.Equal(t, bson.A{"abc"}, IDVariants("abc"))
}

func TestPublicStripsSecrets(t *testing.T) {
	doc := Public(bson.M{"_id": 1, "password": "x", "name": "a"})
	assert.Equal(t, bson.M{"name": "a"}, doc)
}

func TestFloat(t *testing.T) {
	v, ok := Float(bson.M{"a": "12,50"}, "a")
	assert.True(t, ok)
	assert.InDelta(t, 12.5, v, 1e-9)

	_, ok = Float(bson.M{}, "a")
	assert.False(t, ok)
}
