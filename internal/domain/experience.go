package domain

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

var (
	durationPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*\+?\s*(years?|yrs?|months?)\b`)
	yearRangePattern = regexp.MustCompile(`(?i)\b([12]\d{3})(?:\s*[-–—]\s*|\s+to\s+)([12]\d{3})\b`)
	sincePattern     = regexp.MustCompile(`(?i)\b(?:since|from)\s+([12]\d{3})\b((?:\s*[-–—]\s*|\s+to\s+)[12]\d{3})?`)
)

// EstimateYears scans free text for duration mentions and returns the largest
// plausible experience figure in years, rounded to one decimal. Zero means no
// plausible mention was found.
func EstimateYears(text string) float64 {
	return EstimateYearsAt(text, time.Now().UTC().Year())
}

// EstimateYearsAt is EstimateYears with an explicit current year, so callers
// and tests get deterministic results for "since YYYY" style mentions.
func EstimateYearsAt(text string, currentYear int) float64 {
	var found []float64

	for _, m := range durationPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if m[2][0] == 'm' || m[2][0] == 'M' {
			v = math.Round(v/12*100) / 100
		}
		found = append(found, v)
	}

	for _, m := range yearRangePattern.FindAllStringSubmatch(text, -1) {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if start <= 1900 || start > currentYear || end < start {
			continue
		}
		found = append(found, float64(end-start))
	}

	for _, m := range sincePattern.FindAllStringSubmatch(text, -1) {
		if m[2] != "" {
			// "from YYYY to YYYY" is a range, counted above.
			continue
		}
		y, _ := strconv.Atoi(m[1])
		if y <= 1900 || y > currentYear {
			continue
		}
		found = append(found, float64(currentYear-y))
	}

	best := 0.0
	for _, v := range found {
		if v > 0 && v <= MaxPlausibleYears && v > best {
			best = v
		}
	}
	return math.Round(best*10) / 10
}
