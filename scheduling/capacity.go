package scheduling

import (
	"fmt"
	"math"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

// CapacityReport answers "how many round-robin teams fit this session?"
// under the two independent constraints: total court slots must hold the
// n(n-1)/2 matches, and one court seats at most two teams per slot pair.
type CapacityReport struct {
	RequestedTeams    int    `json:"requested_teams"`
	Fits              bool   `json:"fits"`
	MaxTeams          int    `json:"max_teams"`
	MaxTeamsBySlots   int    `json:"max_teams_by_slots"`
	MaxTeamsByCourts  int    `json:"max_teams_by_courts"`
	NumSlots          int    `json:"num_slots"`
	TotalSlots        int    `json:"total_slots"`
	BindingConstraint string `json:"binding_constraint,omitempty"`
	Detail            string `json:"detail,omitempty"`
}

// CheckTeamCapacity is the cheap pre-check run before generating a league
// session: it never schedules anything, it just solves the capacity math.
// Slot capacity comes from n(n-1)/2 <= totalSlots via the quadratic formula;
// court capacity from n <= 2*courts. When the requested count exceeds the
// minimum of the two, the report names the binding constraint.
func CheckTeamCapacity(teamCount int, venue *models.VenueSettings) (*CapacityReport, error) {
	_, sessionMinutes, err := sessionWindow(venue)
	if err != nil {
		return nil, err
	}
	slotMinutes := venue.MatchDurationMinutes + venue.BufferMinutes
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("%w: match duration %dm + buffer %dm", ErrInvalidSlotDuration, venue.MatchDurationMinutes, venue.BufferMinutes)
	}
	numSlots := sessionMinutes / slotMinutes
	if numSlots <= 0 {
		return nil, fmt.Errorf("%w: %dm session, %dm slots", ErrNoSlots, sessionMinutes, slotMinutes)
	}
	courts := len(venue.ActiveCourts())
	if courts == 0 {
		return nil, ErrNoCourts
	}
	totalSlots := numSlots * courts

	// n(n-1)/2 <= T  =>  n <= (1 + sqrt(1+8T)) / 2
	maxBySlots := int(math.Floor((1 + math.Sqrt(1+8*float64(totalSlots))) / 2))
	maxByCourts := courts * 2

	report := &CapacityReport{
		RequestedTeams:   teamCount,
		MaxTeamsBySlots:  maxBySlots,
		MaxTeamsByCourts: maxByCourts,
		NumSlots:         numSlots,
		TotalSlots:       totalSlots,
	}
	report.MaxTeams = maxBySlots
	if maxByCourts < report.MaxTeams {
		report.MaxTeams = maxByCourts
	}
	report.Fits = teamCount <= report.MaxTeams

	if !report.Fits {
		if maxBySlots <= maxByCourts {
			report.BindingConstraint = "slots"
			report.Detail = fmt.Sprintf("%d teams need %d matches but only %d court slots are available",
				teamCount, teamCount*(teamCount-1)/2, totalSlots)
		} else {
			report.BindingConstraint = "courts"
			report.Detail = fmt.Sprintf("%d teams exceed the %d seats of %d simultaneous courts",
				teamCount, maxByCourts, courts)
		}
	}
	return report, nil
}
