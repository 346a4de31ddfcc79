package model

// Person maps a GitHub login to its chat identity.
type Person struct {
	Login  string
	ChatID string
}

// People is the finite, ordered set of tracked persons. Order is the config
// file's declaration order and is used to break leaderboard ties.
type People struct {
	ordered []Person
	byLogin map[string]int
}

// NewPeople builds a People set from the given persons, preserving order.
// Later duplicates of a login are ignored.
func NewPeople(persons []Person) *People {
	p := &People{byLogin: make(map[string]int, len(persons))}
	for _, person := range persons {
		if _, ok := p.byLogin[person.Login]; ok {
			continue
		}
		p.byLogin[person.Login] = len(p.ordered)
		p.ordered = append(p.ordered, person)
	}
	return p
}

// Lookup returns the tracked person for a login, or ok=false when the login
// is not tracked.
func (p *People) Lookup(login string) (Person, bool) {
	i, ok := p.byLogin[login]
	if !ok {
		return Person{}, false
	}
	return p.ordered[i], true
}

// Index returns the declaration position of a login, or -1 when untracked.
func (p *People) Index(login string) int {
	i, ok := p.byLogin[login]
	if !ok {
		return -1
	}
	return i
}

// All returns the tracked persons in declaration order.
func (p *People) All() []Person {
	return p.ordered
}

// Len returns the number of tracked persons.
func (p *People) Len() int {
	return len(p.ordered)
}
