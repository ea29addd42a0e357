package battleship

import (
	"sync"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

type MatchManager interface {
	CreateMatch() (*Match, error)
	GetMatch(matchUuid string) (*Match, error)
	RestartMatch(matchUuid string) (*Match, error)
	TerminateMatch(matchUuid string)
	MatchCount() int
}

type BattleshipMatchManager struct {
	catalog Catalog
	opts    []MatchOption
	matches map[string]*Match
	mu      sync.RWMutex
}

var _ MatchManager = (*BattleshipMatchManager)(nil)

// opts are applied to every match this manager creates
func NewBattleshipMatchManager(catalog Catalog, opts ...MatchOption) *BattleshipMatchManager {
	return &BattleshipMatchManager{
		catalog: catalog,
		opts:    opts,
		matches: make(map[string]*Match, 10),
	}
}

func (bmm *BattleshipMatchManager) CreateMatch() (*Match, error) {
	match, err := NewMatch(bmm.catalog, bmm.opts...)
	if err != nil {
		return nil, err
	}

	bmm.mu.Lock()
	bmm.matches[match.uuid] = match
	bmm.mu.Unlock()

	return match, nil
}

func (bmm *BattleshipMatchManager) GetMatch(matchUuid string) (*Match, error) {
	bmm.mu.RLock()
	match, prs := bmm.matches[matchUuid]
	bmm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrMatchNotExist(matchUuid)
	}

	return match, nil
}

// RestartMatch throws away the match and starts a brand-new one
// with fresh fleets. The new match has a new uuid.
func (bmm *BattleshipMatchManager) RestartMatch(matchUuid string) (*Match, error) {
	if _, err := bmm.GetMatch(matchUuid); err != nil {
		return nil, err
	}

	match, err := bmm.CreateMatch()
	if err != nil {
		return nil, err
	}

	bmm.TerminateMatch(matchUuid)
	return match, nil
}

func (bmm *BattleshipMatchManager) TerminateMatch(matchUuid string) {
	bmm.mu.Lock()
	delete(bmm.matches, matchUuid)
	bmm.mu.Unlock()
}

func (bmm *BattleshipMatchManager) MatchCount() int {
	bmm.mu.RLock()
	defer bmm.mu.RUnlock()
	return len(bmm.matches)
}
