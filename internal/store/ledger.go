package store

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInvalidChoice is returned for a choice other than "yes" or "no".
	ErrInvalidChoice = errors.New("vote must be \"yes\" or \"no\"")
	// ErrInvalidLocation is returned for an empty location.
	ErrInvalidLocation = errors.New("location required")
)

// Choice is one side of a yes/no vote.
type Choice string

const (
	ChoiceYes Choice = "yes"
	ChoiceNo  Choice = "no"
)

// ParseChoice validates s as a Choice.
func ParseChoice(s string) (Choice, error) {
	switch Choice(s) {
	case ChoiceYes, ChoiceNo:
		return Choice(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidChoice, s)
	}
}

// Tally is the vote count for one location. Counts never go below zero.
type Tally struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

func (t *Tally) add(c Choice, delta int) {
	switch c {
	case ChoiceYes:
		t.Yes = max(0, t.Yes+delta)
	case ChoiceNo:
		t.No = max(0, t.No+delta)
	}
}

// Tallies maps location names to their tally.
type Tallies map[string]Tally

// Backend persists the whole ledger at once.
type Backend interface {
	Load() (Tallies, error)
	Save(Tallies) error
}

// Ledger serializes load-mutate-save cycles on a Backend so concurrent votes
// are never lost.
type Ledger struct {
	mu      sync.Mutex
	backend Backend
}

// NewLedger creates a Ledger over backend.
func NewLedger(backend Backend) *Ledger {
	return &Ledger{backend: backend}
}

// GetVotes returns the tally for location, or a zero tally if it has never
// been voted on.
func (l *Ledger) GetVotes(location string) (Tally, error) {
	tallies, err := l.load()
	if err != nil {
		return Tally{}, err
	}
	return tallies[location], nil
}

// RecordVote increments the chosen counter for location.
func (l *Ledger) RecordVote(location string, choice Choice) (Tally, error) {
	if _, err := ParseChoice(string(choice)); err != nil {
		return Tally{}, err
	}
	return l.mutate(location, func(t *Tally) {
		t.add(choice, 1)
	})
}

// ChangeVote moves one vote at location from one choice to another. The
// "from" counter is floored at zero.
func (l *Ledger) ChangeVote(location string, from, to Choice) (Tally, error) {
	if _, err := ParseChoice(string(from)); err != nil {
		return Tally{}, err
	}
	if _, err := ParseChoice(string(to)); err != nil {
		return Tally{}, err
	}
	return l.mutate(location, func(t *Tally) {
		t.add(from, -1)
		t.add(to, 1)
	})
}

// Backup copies the entire ledger to dst while holding the ledger lock.
func (l *Ledger) Backup(dst Backend) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tallies, err := l.backend.Load()
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}
	if err := dst.Save(tallies); err != nil {
		return 0, fmt.Errorf("save backup: %w", err)
	}
	return len(tallies), nil
}

func (l *Ledger) load() (Tallies, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tallies, err := l.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return tallies, nil
}

func (l *Ledger) mutate(location string, fn func(*Tally)) (Tally, error) {
	if location == "" {
		return Tally{}, ErrInvalidLocation
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tallies, err := l.backend.Load()
	if err != nil {
		return Tally{}, fmt.Errorf("load ledger: %w", err)
	}
	if tallies == nil {
		tallies = make(Tallies)
	}

	t := tallies[location]
	fn(&t)
	tallies[location] = t

	if err := l.backend.Save(tallies); err != nil {
		return Tally{}, fmt.Errorf("save ledger: %w", err)
	}
	return t, nil
}
