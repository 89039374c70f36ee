package csvimport

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// emptyDateMarkers are legacy export values that mean "no date"
var emptyDateMarkers = map[string]struct{}{
	"":           {},
	"nan":        {},
	"0000-00-00": {},
	"0000-11-30": {},
}

// CleanLegacyID canonicalizes a legacy primary key. Numeric-looking
// values, including float renderings like "123,0", become plain
// integer strings; anything else is returned trimmed. Empty input
// yields an empty string.
func CleanLegacyID(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return value
	}
	return strconv.FormatInt(int64(f), 10)
}

// ParseDate parses a legacy date value. The markers the old system
// used for "no date" return nil without logging; anything else that
// fails to parse is logged and also treated as unknown. Never returns
// an error to the caller.
func ParseDate(value string, logger *zap.Logger) *time.Time {
	value = strings.TrimSpace(value)
	if _, empty := emptyDateMarkers[strings.ToLower(value)]; empty {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "02-01-2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	if logger != nil {
		logger.Warn("unreadable date", zap.String("value", value))
	}
	return nil
}

// ParseDecimal parses a numeric value with either decimal separator.
// Unparseable or empty input yields zero.
func ParseDecimal(value string) decimal.Decimal {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", "."))
	if value == "" || strings.EqualFold(value, "nan") {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseBool interprets the legacy yes/no flags
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ja", "yes", "true", "1":
		return true
	default:
		return false
	}
}
