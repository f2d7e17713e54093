package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitlens/pkg/aggregate"
)

func TestBucket_Floor(t *testing.T) {
	t.Parallel()

	ts := at("2021-08-17 13:45:10")

	assert.Equal(t, day("2021-08-17"), aggregate.Day.Floor(ts))
	assert.Equal(t, day("2021-08-01"), aggregate.Month.Floor(ts))
	assert.Equal(t, day("2021-07-01"), aggregate.Quarter.Floor(ts))
}

func TestBucket_Next(t *testing.T) {
	t.Parallel()

	assert.Equal(t, day("2021-01-01"), aggregate.Day.Next(at("2020-12-31 23:59:59")))
	assert.Equal(t, day("2021-03-01"), aggregate.Month.Next(at("2021-02-28 10:00:00")))
	assert.Equal(t, day("2022-01-01"), aggregate.Quarter.Next(at("2021-11-30 10:00:00")))
}

func TestBucket_Label(t *testing.T) {
	t.Parallel()

	ts := at("2021-05-09 08:00:00")

	assert.Equal(t, "2021-05-09", aggregate.Day.Label(ts))
	assert.Equal(t, "2021-05", aggregate.Month.Label(ts))
	assert.Equal(t, "2021-Q2", aggregate.Quarter.Label(ts))
}

func TestParseBucket(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]aggregate.Bucket{
		"day":       aggregate.Day,
		"Monthly":   aggregate.Month,
		" quarter ": aggregate.Quarter,
	} {
		got, err := aggregate.ParseBucket(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NotEmpty(t, got.String())
	}

	_, err := aggregate.ParseBucket("week")
	require.ErrorIs(t, err, aggregate.ErrUnknownBucket)
}
