// Package filter validates user input into a model.FilterState and holds the
// live filter of a session.
package filter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/quakeboard/internal/domain/model"
)

const (
	MinMagnitudeFloor   = 0.0
	MaxMagnitudeCeiling = 10.0

	DefaultMinMagnitude = 4.0
	DefaultLookbackDays = 30
)

// Input is the raw text of the dashboard controls.
type Input struct {
	StartDate    string `json:"start"`
	EndDate      string `json:"end"`
	MinMagnitude string `json:"minmag"`
}

// Defaults returns the page-load filter: the last lookbackDays days up to
// today, magnitude floor minMag, no region.
func Defaults(now time.Time, loc *time.Location, lookbackDays int, minMag float64) model.FilterState {
	if lookbackDays < 0 {
		lookbackDays = DefaultLookbackDays
	}
	end := model.Civil(now, loc)
	return model.FilterState{
		StartDate:    end.AddDate(0, 0, -lookbackDays),
		EndDate:      end,
		MinMagnitude: minMag,
	}
}

// Parse validates in and returns the filter it describes. Region is left
// unset; callers merge it from the Holder. An inverted date range is not an
// error.
func Parse(in Input, loc *time.Location) (model.FilterState, error) {
	if loc == nil {
		loc = time.UTC
	}
	startText := strings.TrimSpace(in.StartDate)
	endText := strings.TrimSpace(in.EndDate)
	if startText == "" {
		return model.FilterState{}, invalid(ErrMissingDate, "start", "")
	}
	if endText == "" {
		return model.FilterState{}, invalid(ErrMissingDate, "end", "")
	}

	start, err := time.ParseInLocation(model.DateLayout, startText, loc)
	if err != nil {
		return model.FilterState{}, invalid(ErrInvalidDate, "start", startText)
	}
	end, err := time.ParseInLocation(model.DateLayout, endText, loc)
	if err != nil {
		return model.FilterState{}, invalid(ErrInvalidDate, "end", endText)
	}

	mag, err := ParseMagnitude(in.MinMagnitude)
	if err != nil {
		return model.FilterState{}, err
	}

	return model.FilterState{StartDate: start, EndDate: end, MinMagnitude: mag}, nil
}

// ParseMagnitude accepts a finite number in [0, 10].
func ParseMagnitude(text string) (float64, error) {
	text = strings.TrimSpace(text)
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid(ErrInvalidMagnitude, "minmag", text)
	}
	if v < MinMagnitudeFloor || v > MaxMagnitudeCeiling {
		return 0, invalid(ErrInvalidMagnitude, "minmag", text)
	}
	return v, nil
}

// Format renders f back into control text.
func Format(f model.FilterState) Input {
	return Input{
		StartDate:    f.StartDate.Format(model.DateLayout),
		EndDate:      f.EndDate.Format(model.DateLayout),
		MinMagnitude: strconv.FormatFloat(f.MinMagnitude, 'f', -1, 64),
	}
}
