package dawg

import (
	"strconv"
	"strings"
	"time"
)

// DecodeTime decodes v as an instant, per §6's date/time grammar. Integer
// and float variants are Unix epoch seconds (the float's fractional part is
// sub-second precision); the text variant is parsed with the permissive
// ISO-8601-ish grammar:
//
//	YYYY-MM-DD (T|space) HH:MM:SS (.fff)? (Z | ±HH(:MM|MM)? )?
//
// A text value with no zone suffix is treated as UTC. Fractional seconds
// have millisecond resolution.
func DecodeTime(v Value) (time.Time, error) {
	switch v.Kind() {
	case Integer:
		n, _ := v.AsInteger()
		return time.Unix(n, 0).UTC(), nil
	case Float:
		f, _ := v.AsFloat()
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC(), nil
	case Text:
		s, _ := v.AsText()
		return parseDateTime(s)
	default:
		return time.Time{}, typeMismatchErr("cannot decode %s as a date/time", v.Kind())
	}
}

// parseDateTime implements the §6 grammar directly rather than delegating
// to time.Parse with a fixed layout, since the separator between date and
// time (T or a plain space) and the zone suffix (Z, ±HH, ±HHMM, ±HH:MM, or
// absent) all vary independently.
func parseDateTime(s string) (time.Time, error) {
	if len(s) < len("2006-01-02T15:04:05") {
		return time.Time{}, typeMismatchErr("%q is too short to be a date/time", s)
	}
	datePart := s[:10]
	if datePart[4] != '-' || datePart[7] != '-' {
		return time.Time{}, typeMismatchErr("%q is not a valid date/time", s)
	}
	sep := s[10]
	if sep != 'T' && sep != ' ' {
		return time.Time{}, typeMismatchErr("%q is not a valid date/time", s)
	}
	rest := s[11:]

	timePart := rest
	zone := ""
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case 'Z', '+', '-':
			timePart, zone = rest[:i], rest[i:]
		}
		if zone != "" {
			break
		}
	}

	if len(timePart) < len("15:04:05") || timePart[2] != ':' || timePart[5] != ':' {
		return time.Time{}, typeMismatchErr("%q is not a valid date/time", s)
	}

	year, err1 := strconv.Atoi(datePart[0:4])
	month, err2 := strconv.Atoi(datePart[5:7])
	day, err3 := strconv.Atoi(datePart[8:10])
	hour, err4 := strconv.Atoi(timePart[0:2])
	min, err5 := strconv.Atoi(timePart[3:5])
	secStr := timePart[6:8]
	sec, err6 := strconv.Atoi(secStr)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
		return time.Time{}, typeMismatchErr("%q is not a valid date/time", s)
	}

	nsec := 0
	if len(timePart) > 8 {
		if timePart[8] != '.' {
			return time.Time{}, typeMismatchErr("%q is not a valid date/time", s)
		}
		frac := timePart[9:]
		for len(frac) < 3 {
			frac += "0"
		}
		frac = frac[:3]
		ms, err := strconv.Atoi(frac)
		if err != nil {
			return time.Time{}, typeMismatchErr("%q is not a valid date/time", s)
		}
		nsec = ms * 1_000_000
	}

	loc, err := parseZone(zone)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(year, time.Month(month), day, hour, min, sec, nsec, loc).UTC(), nil
}

// parseZone interprets the zone suffix: "" and "Z" mean UTC; otherwise
// ±HH, ±HHMM or ±HH:MM are fixed offsets.
func parseZone(zone string) (*time.Location, error) {
	if zone == "" || zone == "Z" {
		return time.UTC, nil
	}
	sign := 1
	switch zone[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil, typeMismatchErr("%q is not a valid zone suffix", zone)
	}
	digits := strings.ReplaceAll(zone[1:], ":", "")
	var hh, mm int
	var err error
	switch len(digits) {
	case 2:
		hh, err = strconv.Atoi(digits)
	case 4:
		hh, err = strconv.Atoi(digits[:2])
		if err == nil {
			mm, err = strconv.Atoi(digits[2:])
		}
	default:
		return nil, typeMismatchErr("%q is not a valid zone suffix", zone)
	}
	if err != nil {
		return nil, typeMismatchErr("%q is not a valid zone suffix", zone)
	}
	offset := sign * (hh*3600 + mm*60)
	return time.FixedZone(zone, offset), nil
}
