// Package tle parses NORAD/CelesTrak general-perturbations orbital data —
// the Two-Line Element Set (TLE) and Orbit Mean-Elements Message (OMM)
// formats — into Elements, the mean-element record sgp4.OrbitFromKozaiElements
// consumes.
package tle

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/anupshinde/goeph/sgp4"
	"github.com/anupshinde/goeph/timescale"
	"github.com/anupshinde/goeph/units"
)

// Classification is a TLE/OMM record's security classification.
type Classification byte

const (
	Unclassified Classification = 'U'
	Classified   Classification = 'C'
	Secret       Classification = 'S'
)

// Elements holds the general-perturbations orbital elements parsed from a
// TLE or OMM record, in the units those formats publish them in (degrees,
// revolutions/day). Call ToOrbit to convert to the radians/rad·min⁻¹ form
// sgp4 expects.
type Elements struct {
	ObjectName               string
	InternationalDesignator string
	NoradID                  uint64
	Classification           Classification
	EpochTime                time.Time

	MeanMotionDot  float64 // revolutions/day²
	MeanMotionDdot float64 // revolutions/day³
	DragTerm       float64 // B*, earth radii⁻¹

	ElementSetNumber uint64
	InclinationDeg   float64
	RightAscensionDeg float64
	Eccentricity     float64
	ArgPerigeeDeg    float64
	MeanAnomalyDeg   float64
	MeanMotion       float64 // revolutions/day, Kozai convention
	RevolutionNumber uint64
	EphemerisType    uint8
}

// Epoch returns the element set's epoch as years since UTC 2000-01-01 12:00
// (J2000), the convention sgp4.IAUEpochToSiderealTime and Build expect.
func (e Elements) Epoch() float64 {
	return timescale.ToJ2000(e.EpochTime)
}

// EpochAFSPC is Epoch using the AFSPC reference implementation's
// Julian-date-based expression instead, for bit-matching AFSPC/Vallado
// reference vectors (see sgp4.AFSPCEpochToSiderealTime).
func (e Elements) EpochAFSPC() float64 {
	return timescale.ToJ2000AFSPC(e.EpochTime)
}

// ToOrbit converts the parsed degree/revolutions-per-day elements into the
// radians/rad·min⁻¹ Kozai elements sgp4.OrbitFromKozaiElements expects, and
// runs Kozai→Brouwer mean-element conversion against geo.
func (e Elements) ToOrbit(geo sgp4.Geopotential) (sgp4.BrouwerOrbit, error) {
	const revPerDayToRadPerMin = 2.0 * 3.14159265358979323846 / (24.0 * 60.0)
	orbit, err := sgp4.OrbitFromKozaiElements(
		geo,
		units.AngleFromDegrees(e.InclinationDeg).Radians(),
		units.AngleFromDegrees(e.RightAscensionDeg).Radians(),
		e.Eccentricity,
		units.AngleFromDegrees(e.ArgPerigeeDeg).Radians(),
		units.AngleFromDegrees(e.MeanAnomalyDeg).Radians(),
		e.MeanMotion*revPerDayToRadPerMin,
	)
	if err != nil {
		return sgp4.BrouwerOrbit{}, errors.Wrap(err, "tle: converting Kozai elements to Brouwer mean elements")
	}
	return orbit, nil
}

// spaceIndices must be ASCII space in a well-formed TLE line, at the
// positions NORAD's fixed-column TLE format reserves as separators.
var (
	line1SpaceIndices = []int{1, 8, 17, 32, 43, 52, 61, 63}
	line2SpaceIndices = []int{1, 7, 16, 25, 33, 42, 51}
)

// ParseTLE parses a single Two-Line Element Set, with an optional name
// (usually given on a third line preceding the TLE in published data), into
// Elements. Both lines must be exactly 69 ASCII characters.
func ParseTLE(objectName string, line1, line2 []byte) (Elements, error) {
	if len(line1) != 69 {
		return Elements{}, errors.New("tle: line 1 must have 69 characters")
	}
	if len(line2) != 69 {
		return Elements{}, errors.New("tle: line 2 must have 69 characters")
	}
	if line1[0] != '1' {
		return Elements{}, errors.New("tle: line 1 must start with '1'")
	}
	if line2[0] != '2' {
		return Elements{}, errors.New("tle: line 2 must start with '2'")
	}
	for _, i := range line1SpaceIndices {
		if line1[i] != ' ' {
			return Elements{}, errors.Errorf("tle: line 1:%d must be a space character", i+1)
		}
	}
	for _, i := range line2SpaceIndices {
		if line2[i] != ' ' {
			return Elements{}, errors.Errorf("tle: line 2:%d must be a space character", i+1)
		}
	}

	noradID1, err := strconv.ParseUint(strings.TrimSpace(string(line1[2:7])), 10, 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing line 1 NORAD ID")
	}
	noradID2, err := strconv.ParseUint(strings.TrimSpace(string(line2[2:7])), 10, 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing line 2 NORAD ID")
	}
	if noradID1 != noradID2 {
		return Elements{}, errors.New("tle: line 1 and 2 have different satellite numbers")
	}

	for _, line := range [][]byte{line1, line2} {
		var sum int
		for _, c := range line[:68] {
			switch {
			case c == '-':
				sum++
			case c >= '0' && c <= '9':
				sum += int(c - '0')
			}
		}
		if byte(sum%10)+'0' != line[68] {
			return Elements{}, errors.New("tle: bad checksum")
		}
	}

	var classification Classification
	switch line1[7] {
	case 'U':
		classification = Unclassified
	case 'C':
		classification = Classified
	case 'S':
		classification = Secret
	default:
		return Elements{}, errors.New("tle: unknown classification")
	}

	var internationalDesignator string
	if strings.TrimSpace(string(line1[9:17])) != "" {
		launchYear, err := strconv.Atoi(strings.TrimSpace(string(line1[9:11])))
		if err != nil {
			return Elements{}, errors.Wrap(err, "tle: parsing launch year")
		}
		year := 1900 + launchYear
		if launchYear < 57 {
			year = 2000 + launchYear
		}
		internationalDesignator = strconv.Itoa(year) + "-" + strings.TrimSpace(string(line1[11:17]))
	}

	epoch, err := parseEpoch(line1)
	if err != nil {
		return Elements{}, err
	}

	meanMotionDot, err := strconv.ParseFloat(strings.TrimSpace(string(line1[33:43])), 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing mean motion derivative")
	}

	meanMotionDdot, err := parseDecimalPointAssumedExponent(line1[44:50], line1[50:52])
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing mean motion second derivative")
	}

	dragTerm, err := parseDecimalPointAssumedExponent(line1[53:59], line1[59:61])
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing drag term")
	}

	ephemerisType, err := strconv.ParseUint(strings.TrimSpace(string(line1[62:63])), 10, 8)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing ephemeris type")
	}

	elementSetNumber, err := strconv.ParseUint(strings.TrimSpace(string(line1[64:68])), 10, 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing element set number")
	}

	inclination, err := strconv.ParseFloat(strings.TrimSpace(string(line2[8:16])), 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing inclination")
	}
	rightAscension, err := strconv.ParseFloat(strings.TrimSpace(string(line2[17:25])), 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing right ascension")
	}
	eccentricity, err := parseDecimalPointAssumed(line2[26:33])
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing eccentricity")
	}
	argPerigee, err := strconv.ParseFloat(strings.TrimSpace(string(line2[34:42])), 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing argument of perigee")
	}
	meanAnomaly, err := strconv.ParseFloat(strings.TrimSpace(string(line2[43:51])), 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing mean anomaly")
	}
	meanMotion, err := strconv.ParseFloat(strings.TrimSpace(string(line2[52:63])), 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing mean motion")
	}
	revolutionNumber, err := strconv.ParseUint(strings.TrimSpace(string(line2[63:68])), 10, 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing revolution number")
	}

	return Elements{
		ObjectName:              objectName,
		InternationalDesignator: internationalDesignator,
		NoradID:                 noradID1,
		Classification:          classification,
		EpochTime:               epoch,
		MeanMotionDot:           meanMotionDot,
		MeanMotionDdot:          meanMotionDdot,
		DragTerm:                dragTerm,
		ElementSetNumber:        elementSetNumber,
		InclinationDeg:          inclination,
		RightAscensionDeg:       rightAscension,
		Eccentricity:            eccentricity,
		ArgPerigeeDeg:           argPerigee,
		MeanAnomalyDeg:          meanAnomaly,
		MeanMotion:              meanMotion,
		RevolutionNumber:        revolutionNumber,
		EphemerisType:           uint8(ephemerisType),
	}, nil
}

func parseEpoch(line1 []byte) (time.Time, error) {
	yearDigits, err := strconv.Atoi(strings.TrimSpace(string(line1[18:20])))
	if err != nil {
		return time.Time{}, errors.Wrap(err, "tle: parsing epoch year")
	}
	year := 1900 + yearDigits
	if yearDigits < 57 {
		year = 2000 + yearDigits
	}
	day, err := strconv.ParseFloat(strings.TrimSpace(string(line1[20:32])), 64)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "tle: parsing epoch day-of-year")
	}
	wholeDay := int(day)
	secondsOfDay := (day - float64(wholeDay)) * 86400.0
	nanos := int64((secondsOfDay - float64(int(secondsOfDay))) * 1e9)
	return time.Date(year, time.January, 1, 0, 0, int(secondsOfDay), int(nanos), time.UTC).
		AddDate(0, 0, wholeDay-1), nil
}

// parseDecimalPointAssumed parses a TLE decimal-point-assumed field such as
// " 12345" or "-12345" as ".12345" / "-.12345".
func parseDecimalPointAssumed(field []byte) (float64, error) {
	trimmed := strings.TrimSpace(string(field))
	switch {
	case strings.HasPrefix(trimmed, "-"):
		return strconv.ParseFloat("-."+trimmed[1:], 64)
	case strings.HasPrefix(trimmed, "+"):
		return strconv.ParseFloat("."+trimmed[1:], 64)
	default:
		return strconv.ParseFloat("."+trimmed, 64)
	}
}

// parseDecimalPointAssumedExponent parses a TLE mantissa/exponent pair such
// as "-11606"/"-4", meaning -0.11606e-4.
func parseDecimalPointAssumedExponent(mantissaField, exponentField []byte) (float64, error) {
	mantissa, err := parseDecimalPointAssumed(mantissaField)
	if err != nil {
		return 0, err
	}
	exponent, err := strconv.Atoi(strings.TrimSpace(string(exponentField)))
	if err != nil {
		return 0, err
	}
	return mantissa * pow10(exponent), nil
}

func pow10(exp int) float64 {
	result := 1.0
	neg := exp < 0
	if neg {
		exp = -exp
	}
	for i := 0; i < exp; i++ {
		result *= 10
	}
	if neg {
		return 1 / result
	}
	return result
}

// ParseTLEBatch parses a multi-line two-line-element string, where each
// consecutive pair of lines is one TLE (no object names), as published at
// https://celestrak.com's FORMAT=2le endpoints.
func ParseTLEBatch(data string) ([]Elements, error) {
	lines := strings.Split(strings.TrimRight(data, "\n"), "\n")
	if len(lines)%2 != 0 {
		return nil, errors.New("tle: batch must contain an even number of lines")
	}
	elements := make([]Elements, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		e, err := ParseTLE("", []byte(lines[i]), []byte(lines[i+1]))
		if err != nil {
			return nil, errors.Wrapf(err, "tle: parsing record at line %d", i+1)
		}
		elements = append(elements, e)
	}
	return elements, nil
}

// ParseThreeLineBatch parses a multi-line three-line-element string (object
// name followed by its two TLE lines, repeating), as published at
// https://celestrak.com's FORMAT=tle endpoints.
func ParseThreeLineBatch(data string) ([]Elements, error) {
	lines := strings.Split(strings.TrimRight(data, "\n"), "\n")
	if len(lines)%3 != 0 {
		return nil, errors.New("tle: batch must contain a multiple-of-3 number of lines")
	}
	elements := make([]Elements, 0, len(lines)/3)
	for i := 0; i < len(lines); i += 3 {
		e, err := ParseTLE(lines[i], []byte(lines[i+1]), []byte(lines[i+2]))
		if err != nil {
			return nil, errors.Wrapf(err, "tle: parsing record at line %d", i+1)
		}
		elements = append(elements, e)
	}
	return elements, nil
}

// ommRecord mirrors the NORAD/CelesTrak OMM JSON field names. Several
// numeric fields are published as either a JSON number or a numeric string
// depending on the source (CelesTrak vs Space-Track), so they are decoded
// via json.Number and converted explicitly.
type ommRecord struct {
	ObjectName              *string     `json:"OBJECT_NAME"`
	ObjectID                *string     `json:"OBJECT_ID"`
	NoradCatID               json.Number `json:"NORAD_CAT_ID"`
	ClassificationType       string      `json:"CLASSIFICATION_TYPE"`
	Epoch                    string      `json:"EPOCH"`
	MeanMotionDot            json.Number `json:"MEAN_MOTION_DOT"`
	MeanMotionDdot           json.Number `json:"MEAN_MOTION_DDOT"`
	Bstar                    json.Number `json:"BSTAR"`
	ElementSetNo             json.Number `json:"ELEMENT_SET_NO"`
	Inclination              json.Number `json:"INCLINATION"`
	RaOfAscNode              json.Number `json:"RA_OF_ASC_NODE"`
	Eccentricity             json.Number `json:"ECCENTRICITY"`
	ArgOfPericenter          json.Number `json:"ARG_OF_PERICENTER"`
	MeanAnomaly              json.Number `json:"MEAN_ANOMALY"`
	MeanMotion               json.Number `json:"MEAN_MOTION"`
	RevAtEpoch               json.Number `json:"REV_AT_EPOCH"`
	EphemerisType            json.Number `json:"EPHEMERIS_TYPE"`
}

// ParseOMM parses a single Orbit Mean-Elements Message JSON object into
// Elements.
func ParseOMM(data []byte) (Elements, error) {
	var rec ommRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Elements{}, errors.Wrap(err, "tle: decoding OMM JSON")
	}
	return elementsFromOMM(rec)
}

// ParseOMMList parses a JSON array of OMM objects into Elements, as
// published at https://celestrak.com's FORMAT=json endpoints.
func ParseOMMList(data []byte) ([]Elements, error) {
	var recs []ommRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, errors.Wrap(err, "tle: decoding OMM JSON list")
	}
	elements := make([]Elements, 0, len(recs))
	for i, rec := range recs {
		e, err := elementsFromOMM(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "tle: decoding OMM list entry %d", i)
		}
		elements = append(elements, e)
	}
	return elements, nil
}

func elementsFromOMM(rec ommRecord) (Elements, error) {
	noradID, err := strconv.ParseUint(rec.NoradCatID.String(), 10, 64)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing OMM NORAD_CAT_ID")
	}

	var classification Classification
	switch rec.ClassificationType {
	case "U", "":
		classification = Unclassified
	case "C":
		classification = Classified
	case "S":
		classification = Secret
	default:
		return Elements{}, errors.Errorf("tle: unknown OMM classification %q", rec.ClassificationType)
	}

	epoch, err := time.Parse("2006-01-02T15:04:05.999999", rec.Epoch)
	if err != nil {
		return Elements{}, errors.Wrap(err, "tle: parsing OMM EPOCH")
	}

	f := func(n json.Number, field string) (float64, error) {
		v, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, errors.Wrapf(err, "tle: parsing OMM %s", field)
		}
		return v, nil
	}
	u := func(n json.Number, field string) (uint64, error) {
		v, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "tle: parsing OMM %s", field)
		}
		return v, nil
	}

	meanMotionDot, err := f(rec.MeanMotionDot, "MEAN_MOTION_DOT")
	if err != nil {
		return Elements{}, err
	}
	meanMotionDdot, err := f(rec.MeanMotionDdot, "MEAN_MOTION_DDOT")
	if err != nil {
		return Elements{}, err
	}
	dragTerm, err := f(rec.Bstar, "BSTAR")
	if err != nil {
		return Elements{}, err
	}
	elementSetNumber, err := u(rec.ElementSetNo, "ELEMENT_SET_NO")
	if err != nil {
		return Elements{}, err
	}
	inclination, err := f(rec.Inclination, "INCLINATION")
	if err != nil {
		return Elements{}, err
	}
	rightAscension, err := f(rec.RaOfAscNode, "RA_OF_ASC_NODE")
	if err != nil {
		return Elements{}, err
	}
	eccentricity, err := f(rec.Eccentricity, "ECCENTRICITY")
	if err != nil {
		return Elements{}, err
	}
	argPerigee, err := f(rec.ArgOfPericenter, "ARG_OF_PERICENTER")
	if err != nil {
		return Elements{}, err
	}
	meanAnomaly, err := f(rec.MeanAnomaly, "MEAN_ANOMALY")
	if err != nil {
		return Elements{}, err
	}
	meanMotion, err := f(rec.MeanMotion, "MEAN_MOTION")
	if err != nil {
		return Elements{}, err
	}
	revolutionNumber, err := u(rec.RevAtEpoch, "REV_AT_EPOCH")
	if err != nil {
		return Elements{}, err
	}
	ephemerisType, err := u(rec.EphemerisType, "EPHEMERIS_TYPE")
	if err != nil {
		return Elements{}, err
	}

	var objectName string
	if rec.ObjectName != nil {
		objectName = *rec.ObjectName
	}
	var internationalDesignator string
	if rec.ObjectID != nil {
		internationalDesignator = *rec.ObjectID
	}

	return Elements{
		ObjectName:              objectName,
		InternationalDesignator: internationalDesignator,
		NoradID:                 noradID,
		Classification:          classification,
		EpochTime:               epoch,
		MeanMotionDot:           meanMotionDot,
		MeanMotionDdot:          meanMotionDdot,
		DragTerm:                dragTerm,
		ElementSetNumber:        elementSetNumber,
		InclinationDeg:          inclination,
		RightAscensionDeg:       rightAscension,
		Eccentricity:            eccentricity,
		ArgPerigeeDeg:           argPerigee,
		MeanAnomalyDeg:          meanAnomaly,
		MeanMotion:              meanMotion,
		RevolutionNumber:        revolutionNumber,
		EphemerisType:           uint8(ephemerisType),
	}, nil
}
