package aggregate

import (
	"fmt"
	"time"
)

// NoData is the placeholder text of an undefined statistic.
const NoData = "no data"

// Summary is the text of the four statistic fields.
type Summary struct {
	Total            string `json:"total"`
	MaxMagnitude     string `json:"max_magnitude"`
	AverageMagnitude string `json:"average_magnitude"`
	Deepest          string `json:"deepest"`
	Shallowest       string `json:"shallowest"`
}

// Summary renders r for display; timestamps are shown in loc.
func (r Result) Summary(loc *time.Location) Summary {
	s := Summary{
		Total:            fmt.Sprintf("%d", r.Count),
		MaxMagnitude:     NoData,
		AverageMagnitude: NoData,
		Deepest:          NoData,
		Shallowest:       NoData,
	}
	if r.Count == 0 {
		s.Total = "0 (" + NoData + ")"
	}
	if st := r.Stats.MaxMagnitude; st != nil {
		s.MaxMagnitude = fmt.Sprintf("M%.1f, %s%s", st.Value, st.Event.Place, when(st, loc))
	}
	if avg := r.Stats.AverageMagnitude; avg != nil {
		s.AverageMagnitude = fmt.Sprintf("%.2f", *avg)
	}
	if st := r.Stats.Deepest; st != nil {
		s.Deepest = fmt.Sprintf("%.1f km, %s", st.Value, st.Event.Place)
	}
	if st := r.Stats.Shallowest; st != nil {
		s.Shallowest = fmt.Sprintf("%.1f km, %s", st.Value, st.Event.Place)
	}
	return s
}

func when(st *EventStat, loc *time.Location) string {
	ts, ok := st.Event.Time(loc)
	if !ok {
		return ""
	}
	return " (" + ts.Format("2006-01-02 15:04") + ")"
}
