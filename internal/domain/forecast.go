package domain

import (
	"bytes"
	"encoding/json"
)

// Projection is the projected cash position at a horizon
type Projection struct {
	Date          string  `json:"date"`
	ProjectedCash float64 `json:"projected_cash"`
	TotalInflows  float64 `json:"total_inflows"`
	TotalOutflows float64 `json:"total_outflows"`
}

// LowWaterMark is the minimum running balance over a horizon and the first date it is reached
type LowWaterMark struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// Forecast is the multi-horizon cash forecast. An empty projection set is
// encoded as [] and a populated one as an object keyed by horizon days.
type Forecast struct {
	CurrentCash  float64            `json:"current_cash"`
	Projections  map[int]Projection `json:"projections"`
	LowWaterMark *LowWaterMark      `json:"low_water_mark,omitempty"`
}

type forecastJSON struct {
	CurrentCash  float64         `json:"current_cash"`
	Projections  json.RawMessage `json:"projections"`
	LowWaterMark *LowWaterMark   `json:"low_water_mark,omitempty"`
}

var emptyProjections = json.RawMessage("[]")

func (f Forecast) MarshalJSON() ([]byte, error) {
	out := forecastJSON{CurrentCash: f.CurrentCash, LowWaterMark: f.LowWaterMark, Projections: emptyProjections}
	if len(f.Projections) > 0 {
		raw, err := json.Marshal(f.Projections)
		if err != nil {
			return nil, err
		}
		out.Projections = raw
	}
	return json.Marshal(out)
}

func (f *Forecast) UnmarshalJSON(data []byte) error {
	var in forecastJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	f.CurrentCash = in.CurrentCash
	f.LowWaterMark = in.LowWaterMark
	f.Projections = map[int]Projection{}

	raw := bytes.TrimSpace(in.Projections)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	return json.Unmarshal(raw, &f.Projections)
}
