package brackets

import (
	"errors"
	"math"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/identity"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

var ErrNotEnoughParticipants = errors.New("not enough participants to generate a bracket (minimum 2)")

type EliminationOptions struct {
	DivisionID      string
	BracketType     models.BracketType
	PreserveOrder   bool
	ThirdPlaceMatch bool
}

// EliminationResult is the generated bracket. Matches holds the playable
// matches in (round, matchNum) order; byes are resolved during generation and
// only appear in Graph, which keys every created slot (byes included) by its
// stable bracket position for diagnostics and incremental advancement.
type EliminationResult struct {
	Matches     []*models.Match
	Graph       map[int]*models.Match
	Rounds      int
	BracketSize int
}

// node is one feeder into a round: a resolved participant, the winner of an
// earlier match (srcPos), or a permanent bye.
type node struct {
	side   *models.Side
	srcPos int
	empty  bool
}

// GenerateSingleElimination builds a single-elimination bracket in two
// passes: the bracket graph is first constructed purely in memory keyed by
// integer bracket position, then every position is mapped to its canonical ID
// and the advancement pointers are rewritten. No temporary identifier ever
// reaches the output.
//
// With PreserveOrder false, participants are seeded by rating and placed via
// SeedPositions so the top seeds are maximally separated. With PreserveOrder
// true, the input order is the literal first-round slot order and nil
// entries are explicit byes; this is the path cross-pool qualifier selection
// uses, where re-deriving placement from ratings would destroy the
// intentional pairing.
//
// A first-round match with exactly one occupant is recorded as a bye and its
// occupant advances immediately; empty slots propagate so sparse padded
// inputs still produce a well-formed bracket. With ThirdPlaceMatch and at
// least two rounds, a bronze match is appended and each semifinal gets loser
// pointers into it.
func GenerateSingleElimination(participants []*models.Participant, opts EliminationOptions) (*EliminationResult, error) {
	entrants := 0
	for _, p := range participants {
		if p != nil {
			entrants++
		}
	}
	if entrants < 2 {
		return nil, ErrNotEnoughParticipants
	}

	slots := placeSlots(participants, entrants, opts.PreserveOrder)
	bracketSize := len(slots)
	rounds := int(math.Log2(float64(bracketSize)))

	graph := make(map[int]*models.Match, bracketSize)
	roundStart := make([]int, rounds+2)

	current := make([]node, bracketSize)
	for i, s := range slots {
		if s == nil {
			current[i] = node{empty: true}
		} else {
			current[i] = node{side: s}
		}
	}

	type link struct {
		fromPos int
		toPos   int
		slot    int
	}
	var links []link

	pos := 0
	for r, count := 1, bracketSize/2; r <= rounds; r, count = r+1, count/2 {
		roundStart[r] = pos + 1
		next := make([]node, 0, count)
		matchNum := 0

		for i := 0; i < count; i++ {
			pos++
			n1 := current[2*i]
			n2 := current[2*i+1]

			switch {
			case n1.empty && n2.empty:
				next = append(next, node{empty: true})

			case n2.empty || n1.empty:
				occupied := n1
				if n1.empty {
					occupied = n2
				}
				// A resolved participant meeting an empty slot in the opening
				// round is a recorded bye; later pass-throughs just carry the
				// node forward.
				if r == 1 && occupied.side != nil {
					winner := occupied.side.ParticipantID
					graph[pos] = &models.Match{
						DivisionID: opts.DivisionID,
						Stage:      models.StageBracket,
						Round:      r,
						MatchNum:   0,
						Status:     models.MatchStatusBye,
						SideA:      occupied.side,
						WinnerID:   &winner,
						Bracket:    &models.BracketSlot{Type: opts.BracketType, Position: pos},
					}
				}
				next = append(next, occupied)

			default:
				matchNum++
				m := &models.Match{
					DivisionID: opts.DivisionID,
					Stage:      models.StageBracket,
					Round:      r,
					MatchNum:   matchNum,
					Status:     models.MatchStatusScheduled,
					SideA:      n1.side,
					SideB:      n2.side,
					Bracket:    &models.BracketSlot{Type: opts.BracketType, Position: pos},
				}
				graph[pos] = m
				if n1.srcPos != 0 {
					links = append(links, link{fromPos: n1.srcPos, toPos: pos, slot: 1})
				}
				if n2.srcPos != 0 {
					links = append(links, link{fromPos: n2.srcPos, toPos: pos, slot: 2})
				}
				next = append(next, node{srcPos: pos})
			}
		}
		current = next
	}

	finalPos := roundStart[rounds]

	// Bronze match between the semifinal losers.
	var bronze *models.Match
	if opts.ThirdPlaceMatch && rounds >= 2 {
		bronze = &models.Match{
			DivisionID: opts.DivisionID,
			Stage:      models.StageBracket,
			Round:      rounds,
			MatchNum:   2,
			Status:     models.MatchStatusScheduled,
			Bracket:    &models.BracketSlot{Type: opts.BracketType, Position: bracketSize},
		}
		graph[bracketSize] = bronze
	}

	// Second pass: positions become canonical IDs, links are rewritten.
	idOf := func(p int) string {
		if bronze != nil && p == bronze.Bracket.Position {
			return identity.BronzeMatchID(opts.DivisionID, opts.BracketType)
		}
		return identity.BracketMatchID(opts.DivisionID, opts.BracketType, p)
	}
	for p, m := range graph {
		m.ID = idOf(p)
	}
	for _, l := range links {
		from := graph[l.fromPos]
		nextID := idOf(l.toPos)
		slot := l.slot
		from.Bracket.NextMatchID = &nextID
		from.Bracket.NextMatchSlot = &slot
	}
	if bronze != nil {
		bronzeSlot := 0
		for _, l := range links {
			if l.toPos != finalPos {
				continue
			}
			bronzeSlot++
			id := bronze.ID
			slot := bronzeSlot
			graph[l.fromPos].Bracket.LoserNextMatchID = &id
			graph[l.fromPos].Bracket.LoserNextMatchSlot = &slot
		}
	}

	matches := make([]*models.Match, 0, len(graph))
	for p := 1; p <= bracketSize-1; p++ {
		if m, ok := graph[p]; ok && m.Status != models.MatchStatusBye {
			matches = append(matches, m)
		}
	}
	if bronze != nil {
		matches = append(matches, bronze)
	}

	return &EliminationResult{
		Matches:     matches,
		Graph:       graph,
		Rounds:      rounds,
		BracketSize: bracketSize,
	}, nil
}

// placeSlots assigns seeds and returns the first-round slot layout, padded
// with byes to the bracket size.
func placeSlots(participants []*models.Participant, entrants int, preserveOrder bool) []*models.Side {
	if preserveOrder {
		seed := 0
		for _, p := range participants {
			if p != nil {
				seed++
				p.Seed = seed
			}
		}
		size := bracketSizeFor(len(participants))
		slots := make([]*models.Side, size)
		for i, p := range participants {
			slots[i] = models.SideFromParticipant(p)
		}
		return slots
	}

	dense := make([]*models.Participant, 0, entrants)
	for _, p := range participants {
		if p != nil {
			dense = append(dense, p)
		}
	}
	seeded := SeedParticipants(dense, false)
	size := bracketSizeFor(entrants)
	positions := SeedPositions(size)
	slots := make([]*models.Side, size)
	for i, seed := range positions {
		if seed <= entrants {
			slots[i] = models.SideFromParticipant(seeded[seed-1])
		}
	}
	return slots
}

func bracketSizeFor(n int) int {
	size := 2
	for size < n {
		size *= 2
	}
	return size
}
