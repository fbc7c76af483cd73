package repository_test

import (
	"testing"
	"time"

	"wissensbank/backend/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestNullableString(t *testing.T) {
	require.Nil(t, repository.NullableString(nil))

	value := ""
	require.Equal(t, "", repository.NullableString(&value))
}

func TestFormatTime(t *testing.T) {
	t.Run("formats time in RFC3339Nano", func(t *testing.T) {
		fixedTime := time.Date(2025, 1, 4, 12, 34, 56, 789000000, time.UTC)
		require.Equal(t, "2025-01-04T12:34:56.789Z", repository.FormatTime(fixedTime))
	})

	t.Run("converts non-UTC time to UTC", func(t *testing.T) {
		loc := time.FixedZone("CET", 3600)
		localTime := time.Date(2025, 1, 4, 13, 34, 56, 0, loc)
		require.Equal(t, "2025-01-04T12:34:56Z", repository.FormatTime(localTime))
	})
}

func TestParseTime_RoundTrip(t *testing.T) {
	fixedTime := time.Date(2025, 1, 4, 12, 34, 56, 789000000, time.UTC)
	parsed, err := repository.ParseTime(repository.FormatTime(fixedTime))
	require.NoError(t, err)
	require.True(t, fixedTime.Equal(parsed))

	_, err = repository.ParseTime("not a time")
	require.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `100\%`, repository.EscapeLike("100%"))
	require.Equal(t, `a\_b`, repository.EscapeLike("a_b"))
	require.Equal(t, `c:\\dir`, repository.EscapeLike(`c:\dir`))
	require.Equal(t, "acme", repository.EscapeLike("acme"))
}

func TestFromMillis(t *testing.T) {
	at := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	require.True(t, at.Equal(repository.FromMillis(at.UnixMilli())))
}
