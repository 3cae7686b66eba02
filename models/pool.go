package models

// Pool is a round-robin sub-group of a division. Key is the normalized
// lower-kebab form of Name and is the identity used in canonical match IDs;
// it never changes once a generation has committed.
type Pool struct {
	Number       int            `json:"number"`
	Name         string         `json:"name"`
	Key          string         `json:"key"`
	Participants []*Participant `json:"participants"`
}

func (p *Pool) Size() int {
	return len(p.Participants)
}
