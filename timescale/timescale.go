// Package timescale converts calendar UTC times to the years-since-J2000
// convention sgp4.IAUEpochToSiderealTime, sgp4.AFSPCEpochToSiderealTime, and
// tle.Elements.Epoch/EpochAFSPC use as their time argument.
package timescale

import "time"

// ToJ2000 returns t expressed as years since UTC 2000-01-01 12:00 (J2000),
// using the IAU calendar-to-Julian-day expression. This is the recommended
// conversion for use with sgp4.IAUEpochToSiderealTime.
func ToJ2000(t time.Time) float64 {
	y := t.Year()
	m := int(t.Month())
	d := t.Day()
	days := float64(367*y-(7*(y+(m+9)/12))/4+275*m/9+d-730531) / 365.25
	secondsOfDay := t.Hour()*3600 + t.Minute()*60 + t.Second()
	seconds := float64(secondsOfDay-43200) / (24.0 * 60.0 * 60.0 * 365.25)
	nanos := float64(t.Nanosecond()) / (24.0 * 60.0 * 60.0 * 1e9 * 365.25)
	return days + seconds + nanos
}

// ToJ2000AFSPC is ToJ2000 using the AFSPC reference implementation's
// Julian-date-based expression instead, for bit-matching AFSPC/Vallado
// reference vectors with sgp4.AFSPCEpochToSiderealTime.
func ToJ2000AFSPC(t time.Time) float64 {
	y := t.Year()
	m := int(t.Month())
	d := t.Day()
	jd := float64(367*y-(7*(y+(m+9)/12))/4+275*m/9+d) + 1721013.5
	fractionalDay := (((float64(t.Nanosecond())/1e9+float64(t.Second()))/60.0+
		float64(t.Minute()))/60.0 + float64(t.Hour())) / 24.0
	return (jd + fractionalDay - 2451545.0) / 365.25
}
