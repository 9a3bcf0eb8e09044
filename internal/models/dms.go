package models

import "strings"

// Rational is an unsigned EXIF RATIONAL value.
type Rational struct {
	Num int64
	Den int64
}

// Float returns Num/Den, or 0 for a zero denominator.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// DMS is a degrees/minutes/seconds angle together with its hemisphere reference (N, S, E or W).
type DMS struct {
	Degrees Rational
	Minutes Rational
	Seconds Rational
	Ref     string
}

// Decimal converts the angle to signed decimal degrees. Southern and western
// references produce negative values.
func (d DMS) Decimal() float64 {
	dec := d.Degrees.Float() + d.Minutes.Float()/60 + d.Seconds.Float()/3600
	switch strings.ToUpper(strings.Trim(d.Ref, " \x00")) {
	case "S", "W":
		return -dec
	}
	return dec
}
