// Package scheduling assigns generated matches to a (time slot x court) grid
// under per-team rest constraints. It is a pure computation over its inputs:
// no locking, no persistence, no retries. A run that cannot place every match
// is not an error; it returns a partitioned result with diagnostics so the
// operator can decide what to relax.
package scheduling

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

var (
	ErrInvalidSlotDuration = errors.New("slot duration must be positive")
	ErrNoSlots             = errors.New("session window yields zero time slots")
	ErrNoCourts            = errors.New("no active courts configured")
)

const maxUnscheduledDetail = 5

type Stats struct {
	NumSlots    int `json:"num_slots"`
	CourtCount  int `json:"court_count"`
	TotalSlots  int `json:"total_slots"`
	SlotsUsed   int `json:"slots_used"`
	RestSlots   int `json:"rest_slots"`
	SlotMinutes int `json:"slot_minutes"`
	Scheduled   int `json:"scheduled"`
	Unscheduled int `json:"unscheduled"`
}

type Result struct {
	Scheduled   []*models.Match `json:"scheduled"`
	Unscheduled []*models.Match `json:"unscheduled"`
	Success     bool            `json:"success"`
	Stats       Stats           `json:"stats"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
}

// Schedule greedily assigns matches to the earliest usable (slot, court).
// A slot is usable for a match when restSlots empty slots separate it from
// every known side's last-played slot and at least one court in it is free.
// Matches are processed in deterministic (round, matchNum, id) order;
// greedy first-fit is the specified behavior, not an approximation to be
// improved behind the caller's back.
//
// Placed matches get their court, slot index and concrete start/end times
// written back; matches that exhaust every slot land in Unscheduled.
func Schedule(matches []*models.Match, venue *models.VenueSettings) (*Result, error) {
	sessionStart, sessionMinutes, err := sessionWindow(venue)
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
	courts := venue.ActiveCourts()
	if len(courts) == 0 {
		return nil, ErrNoCourts
	}
	restSlots := (venue.MinRestMinutes + slotMinutes - 1) / slotMinutes

	ordered := make([]*models.Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Round != ordered[j].Round {
			return ordered[i].Round < ordered[j].Round
		}
		if ordered[i].MatchNum != ordered[j].MatchNum {
			return ordered[i].MatchNum < ordered[j].MatchNum
		}
		return ordered[i].ID < ordered[j].ID
	})

	occupied := make([][]bool, numSlots)
	for i := range occupied {
		occupied[i] = make([]bool, len(courts))
	}
	lastPlayed := make(map[string]int)

	res := &Result{
		Stats: Stats{
			NumSlots:    numSlots,
			CourtCount:  len(courts),
			TotalSlots:  numSlots * len(courts),
			RestSlots:   restSlots,
			SlotMinutes: slotMinutes,
		},
	}
	slotsUsed := make(map[int]bool)

	for _, m := range ordered {
		placed := false
		for slot := 0; slot < numSlots && !placed; slot++ {
			if !restSatisfied(m, slot, restSlots, lastPlayed) {
				continue
			}
			for c := range courts {
				if occupied[slot][c] {
					continue
				}
				occupied[slot][c] = true
				assign(m, slot, courts[c].Name, sessionStart, slotMinutes, venue.MatchDurationMinutes)
				for _, team := range knownSides(m) {
					lastPlayed[team] = slot
				}
				slotsUsed[slot] = true
				res.Scheduled = append(res.Scheduled, m)
				placed = true
				break
			}
		}
		if !placed {
			res.Unscheduled = append(res.Unscheduled, m)
		}
	}

	res.Stats.SlotsUsed = len(slotsUsed)
	res.Stats.Scheduled = len(res.Scheduled)
	res.Stats.Unscheduled = len(res.Unscheduled)
	res.Success = len(res.Unscheduled) == 0
	if !res.Success {
		res.Diagnostics = diagnose(res, len(matches))
	}
	return res, nil
}

// restSatisfied requires restSlots full slots to separate a team's matches:
// after playing slot s, its next usable slot is s+restSlots+1. At restSlots=0
// this still rejects the slot the team is already playing in.
func restSatisfied(m *models.Match, slot, restSlots int, lastPlayed map[string]int) bool {
	for _, team := range knownSides(m) {
		if last, ok := lastPlayed[team]; ok && slot-last <= restSlots {
			return false
		}
	}
	return true
}

func knownSides(m *models.Match) []string {
	sides := make([]string, 0, 2)
	if id := m.SideID(1); id != "" {
		sides = append(sides, id)
	}
	if id := m.SideID(2); id != "" {
		sides = append(sides, id)
	}
	return sides
}

func assign(m *models.Match, slot int, court string, sessionStart time.Time, slotMinutes, matchMinutes int) {
	start := sessionStart.Add(time.Duration(slot*slotMinutes) * time.Minute)
	end := start.Add(time.Duration(matchMinutes) * time.Minute)
	s := slot
	c := court
	m.TimeSlot = &s
	m.Court = &c
	m.StartTime = &start
	m.EndTime = &end
}

// diagnose explains an incomplete run without making the operator re-derive
// the slot math: total demand vs capacity, the rest-time cost, and a capped
// list of the pairings left out.
func diagnose(res *Result, requested int) []string {
	d := []string{
		fmt.Sprintf("scheduled %d of %d matches; %d of %d court slots used",
			res.Stats.Scheduled, requested, res.Stats.SlotsUsed, res.Stats.TotalSlots),
	}
	if requested > res.Stats.TotalSlots {
		d = append(d, fmt.Sprintf("capacity shortfall: %d matches exceed %d total court slots (%d slots x %d courts)",
			requested, res.Stats.TotalSlots, res.Stats.NumSlots, res.Stats.CourtCount))
	}
	if res.Stats.RestSlots > 0 {
		d = append(d, fmt.Sprintf("rest constraint: teams need %d empty slot(s) between matches, which limits packing beyond raw capacity",
			res.Stats.RestSlots))
	}
	for i, m := range res.Unscheduled {
		if i == maxUnscheduledDetail {
			d = append(d, fmt.Sprintf("... and %d more unscheduled matches", len(res.Unscheduled)-maxUnscheduledDetail))
			break
		}
		d = append(d, fmt.Sprintf("unscheduled: %s vs %s (round %d)", sideName(m, 1), sideName(m, 2), m.Round))
	}
	return d
}

func sideName(m *models.Match, slot int) string {
	var s *models.Side
	if slot == 1 {
		s = m.SideA
	} else {
		s = m.SideB
	}
	if s == nil {
		return "TBD"
	}
	return s.Name
}

// sessionWindow resolves the venue's session date and HH:MM bounds in its
// timezone into a concrete start instant and a duration in minutes.
func sessionWindow(venue *models.VenueSettings) (time.Time, int, error) {
	loc := time.UTC
	if venue.Timezone != "" {
		l, err := time.LoadLocation(venue.Timezone)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("invalid timezone %q: %w", venue.Timezone, err)
		}
		loc = l
	}

	date := venue.SessionDate
	if date == "" {
		date = time.Now().In(loc).Format("2006-01-02")
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+venue.StartTime, loc)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid session start %q %q: %w", date, venue.StartTime, err)
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", date+" "+venue.EndTime, loc)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid session end %q %q: %w", date, venue.EndTime, err)
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes <= 0 {
		return time.Time{}, 0, fmt.Errorf("session end %s is not after start %s", venue.EndTime, venue.StartTime)
	}
	return start, minutes, nil
}
