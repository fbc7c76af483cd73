package db

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// UnicodeLowerFunc lowercases text using Go's Unicode tables. SQLite's own
// lower() and LIKE only fold ASCII, which misses umlauts.
const UnicodeLowerFunc = "unicode_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(UnicodeLowerFunc, 1, unicodeLower); err != nil {
		panic("register " + UnicodeLowerFunc + ": " + err.Error())
	}
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
