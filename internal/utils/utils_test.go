package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID        string    `db:"id"`
	Name      *string   `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	Skipped   string    `db:"-"`
	internal  string    `db:"internal"`
	NoTag     string
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "created_at"}, StructTagValues(row{}))
	assert.Equal(t, []string{"id", "name", "created_at"}, StructTagValues(&row{}))
	assert.Panics(t, func() { StructTagValues("not a struct") })
}

func TestStructToMap(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &row{ID: "abc", Name: StringPtr("Alex"), CreatedAt: created, Skipped: "x", NoTag: "y", internal: "z"}

	got := StructToMap(r)

	assert.Len(t, got, 3)
	assert.Equal(t, "abc", got["id"])
	assert.Equal(t, "Alex", PtrString(got["name"].(*string)))
	assert.Equal(t, created, got["created_at"])
}

func TestRoundFloat64(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{in: 66.66666, places: 2, want: 66.67},
		{in: 33.333, places: 1, want: 33.3},
		{in: 100, places: 2, want: 100},
		{in: 0, places: 2, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundFloat64(tt.in, tt.places))
	}
}

func TestNanoID(t *testing.T) {
	id := NanoID()
	assert.Len(t, id, NanoidSize)
	assert.NotEqual(t, id, NanoID())
	assert.Len(t, NanoIDSize(10), 10)
	assert.Len(t, NanoIDSize(0), NanoidSize)
}

func TestErrorWrapOrNil(t *testing.T) {
	assert.NoError(t, ErrorWrapOrNil(nil, "ignored"))

	base := assert.AnError
	assert.Equal(t, base, ErrorWrapOrNil(base, ""))
	wrapped := ErrorWrapOrNil(base, "failed to do thing")
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "failed to do thing: "+base.Error(), wrapped.Error())
}

func TestPrefixedID(t *testing.T) {
	id := PrefixedID("dsp")
	assert.Regexp(t, `^dsp_[0-9a-zA-Z]{32}$`, id)
}
