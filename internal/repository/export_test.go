package repository

import "time"

func NullableString(value *string) interface{} { return nullableString(value) }

func FormatTime(value time.Time) string { return formatTime(value) }

func ParseTime(value string) (time.Time, error) { return parseTime(value) }

func EscapeLike(term string) string { return escapeLike(term) }

func FromMillis(value int64) time.Time { return fromMillis(value) }
