package i18n

import (
	"fmt"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var monthsGenitive = map[string][12]string{
	"ru": {"января", "февраля", "марта", "апреля", "мая", "июня", "июля", "августа", "сентября", "октября", "ноября", "декабря"},
	"kk": {"қаңтар", "ақпан", "наурыз", "сәуір", "мамыр", "маусым", "шілде", "тамыз", "қыркүйек", "қазан", "қараша", "желтоқсан"},
}

// ParseTime accepts the timestamp shapes the backend emits. Values without a
// zone are read as UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a backend timestamp with a long month name, or the
// "not specified" text when s is empty or unparseable.
func FormatDate(locale, s string) string {
	t, ok := ParseTime(s)
	if !ok {
		return Translate(locale, "notSpecified")
	}
	loc := Normalize(locale)
	month := monthsGenitive[loc][t.Month()-1]
	switch loc {
	case "kk":
		return fmt.Sprintf("%d ж. %d %s, %02d:%02d", t.Year(), t.Day(), month, t.Hour(), t.Minute())
	default:
		return fmt.Sprintf("%d %s %d г., %02d:%02d", t.Day(), month, t.Year(), t.Hour(), t.Minute())
	}
}
