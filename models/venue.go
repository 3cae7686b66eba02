package models

// Court is one playable court at the venue. Order controls display and
// assignment preference; inactive courts are skipped by the scheduler.
type Court struct {
	Name   string `json:"name"`
	Order  int    `json:"order"`
	Active bool   `json:"active"`
}

// VenueSettings describes one session's scheduling envelope. StartTime and
// EndTime are "HH:MM" wall-clock strings interpreted in Timezone on
// SessionDate ("2006-01-02"). The engine assumes well-formed input and fails
// loudly on garbage (a non-positive slot duration is an error, not a loop).
type VenueSettings struct {
	SessionDate          string  `json:"session_date"`
	StartTime            string  `json:"start_time"`
	EndTime              string  `json:"end_time"`
	Timezone             string  `json:"timezone"`
	MatchDurationMinutes int     `json:"match_duration_minutes"`
	BufferMinutes        int     `json:"buffer_minutes"`
	MinRestMinutes       int     `json:"min_rest_minutes"`
	Courts               []Court `json:"courts"`
}

// ActiveCourts returns the active courts in display order.
func (v *VenueSettings) ActiveCourts() []Court {
	courts := make([]Court, 0, len(v.Courts))
	for _, c := range v.Courts {
		if c.Active {
			courts = append(courts, c)
		}
	}
	for i := 1; i < len(courts); i++ {
		for j := i; j > 0 && courts[j].Order < courts[j-1].Order; j-- {
			courts[j], courts[j-1] = courts[j-1], courts[j]
		}
	}
	return courts
}
