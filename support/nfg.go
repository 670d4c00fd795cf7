package support

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit"
	"github.com/timpalpant/gamekit/numeric"
)

// NfgSupport is a subset of the pure strategies of each personal player.
// Every player keeps at least one strategy.
type NfgSupport struct {
	snapshot
	// strategies holds the strategies of each player in the support, in
	// strategy order, indexed by player id - 1.
	strategies [][]*gamekit.Strategy
}

var (
	_ Support               = &NfgSupport{}
	_ gamekit.StrategySpace = &NfgSupport{}
)

// NewNfgSupport returns the support containing every strategy of g.
func NewNfgSupport(g *gamekit.Game) *NfgSupport {
	players := g.Players()
	s := &NfgSupport{
		snapshot:   snapshot{game: g, revision: g.Revision()},
		strategies: make([][]*gamekit.Strategy, len(players)),
	}
	for i, p := range players {
		s.strategies[i] = p.Strategies()
	}
	return s
}

// Strategies returns the strategies of p in the support. On a stale
// support these are strategies of the old revision.
func (s *NfgSupport) Strategies(p *gamekit.Player) []*gamekit.Strategy {
	if p.IsChance() || p.Game() != s.game {
		return nil
	}
	return append([]*gamekit.Strategy(nil), s.strategies[p.ID()-1]...)
}

// NumStrategies returns the number of strategies of each player in the
// support at its revision.
func (s *NfgSupport) NumStrategies() []int {
	result := make([]int, len(s.strategies))
	for i, strategies := range s.strategies {
		result[i] = len(strategies)
	}
	return result
}

// Contains returns whether st is in the support.
func (s *NfgSupport) Contains(st *gamekit.Strategy) bool {
	if st.Player().Game() != s.game {
		return false
	}
	for _, t := range s.strategies[st.Player().ID()-1] {
		if t == st {
			return true
		}
	}
	return false
}

func (s *NfgSupport) checkStrategy(st *gamekit.Strategy) error {
	if err := s.check(); err != nil {
		return err
	}
	if st.Player().Game() != s.game {
		return errors.Wrapf(gamekit.ErrStructural, "%v is not a strategy of game %v", st, s.game.ID())
	}
	if !st.Valid() {
		return errors.Wrapf(gamekit.ErrInvalidState, "strategy %v is stale", st)
	}
	return nil
}

// AddStrategy adds st to the support.
func (s *NfgSupport) AddStrategy(st *gamekit.Strategy) error {
	if err := s.checkStrategy(st); err != nil {
		return err
	}
	if s.Contains(st) {
		return nil
	}

	i := st.Player().ID() - 1
	strategies := s.strategies[i]
	pos := len(strategies)
	for j, t := range strategies {
		if t.Number() > st.Number() {
			pos = j
			break
		}
	}
	strategies = append(strategies, nil)
	copy(strategies[pos+1:], strategies[pos:])
	strategies[pos] = st
	s.strategies[i] = strategies
	return nil
}

// RemoveStrategy removes st from the support. It returns false if st is
// not in the support or is the last strategy of its player.
func (s *NfgSupport) RemoveStrategy(st *gamekit.Strategy) (bool, error) {
	if err := s.checkStrategy(st); err != nil {
		return false, err
	}

	i := st.Player().ID() - 1
	strategies := s.strategies[i]
	if len(strategies) == 1 {
		return false, nil
	}
	for j, t := range strategies {
		if t == st {
			s.strategies[i] = append(strategies[:j:j], strategies[j+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Copy returns an independent copy of the support.
func (s *NfgSupport) Copy() *NfgSupport {
	result := &NfgSupport{
		snapshot:   s.snapshot,
		strategies: make([][]*gamekit.Strategy, len(s.strategies)),
	}
	for i, strategies := range s.strategies {
		result.strategies[i] = append([]*gamekit.Strategy(nil), strategies...)
	}
	return result
}

// Equal returns whether both supports contain the same strategies of the
// same game.
func (s *NfgSupport) Equal(other *NfgSupport) bool {
	if s.game != other.game || len(s.strategies) != len(other.strategies) {
		return false
	}
	for i := range s.strategies {
		if len(s.strategies[i]) != len(other.strategies[i]) {
			return false
		}
		for j := range s.strategies[i] {
			if s.strategies[i][j] != other.strategies[i][j] {
				return false
			}
		}
	}
	return true
}

// NewIterator returns an iterator over the contingencies of the support.
func (s *NfgSupport) NewIterator() (*gamekit.ContingencyIter, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return gamekit.NewContingencyIter(s.game, s), nil
}

// NewMixedProfile returns a zero mixed profile over the support.
func (s *NfgSupport) NewMixedProfile() (*gamekit.MixedProfile, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return gamekit.NewMixedProfileOver(s), nil
}

func (s *NfgSupport) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, strategies := range s.strategies {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("{")
		for j, st := range strategies {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%q", st.Label())
		}
		sb.WriteString("}")
	}
	sb.WriteString("}")
	return sb.String()
}

// Dominates returns whether a dominates b against every contingency of
// the other players in the support. Strong dominance requires a strictly
// higher payoff everywhere; weak dominance requires a payoff at least as
// high everywhere and strictly higher somewhere.
func (s *NfgSupport) Dominates(ctx context.Context, a, b *gamekit.Strategy, strong bool) (bool, error) {
	if err := s.checkStrategy(a); err != nil {
		return false, err
	}
	if err := s.checkStrategy(b); err != nil {
		return false, err
	}
	p := a.Player()
	if b.Player() != p {
		return false, errors.Wrapf(gamekit.ErrStructural, "%v and %v belong to different players", a, b)
	}

	it := gamekit.NewContingencyIter(s.game, s)
	if err := it.Freeze(a); err != nil {
		return false, err
	}

	cmp := compare{strong: strong}
	for it.Next() {
		if err := checkContext(ctx); err != nil {
			return false, err
		}

		c := it.Contingency()
		ap, err := c.Payoff(p)
		if err != nil {
			return false, err
		}
		if err := c.SetStrategy(b); err != nil {
			return false, err
		}
		bp, err := c.Payoff(p)
		if err != nil {
			return false, err
		}
		if err := c.SetStrategy(a); err != nil {
			return false, err
		}

		if !cmp.next(ap.Cmp(bp)) {
			return false, nil
		}
	}
	return cmp.result(), nil
}

// IsDominated returns whether another strategy of the support dominates st.
func (s *NfgSupport) IsDominated(ctx context.Context, st *gamekit.Strategy, strong bool) (bool, error) {
	if err := s.checkStrategy(st); err != nil {
		return false, err
	}
	_, dominated, err := s.dominatedBy(strong)(ctx, st, s.rivals(st))
	return dominated, err
}

func (s *NfgSupport) rivals(st *gamekit.Strategy) []*gamekit.Strategy {
	var result []*gamekit.Strategy
	for _, t := range s.Strategies(st.Player()) {
		if t != st {
			result = append(result, t)
		}
	}
	return result
}

func (s *NfgSupport) dominatedBy(strong bool) dominatedByFunc[*gamekit.Strategy] {
	return func(ctx context.Context, st *gamekit.Strategy, rivals []*gamekit.Strategy) (string, bool, error) {
		for _, t := range rivals {
			dominates, err := s.Dominates(ctx, t, st, strong)
			if err != nil {
				return "", false, err
			}
			if dominates {
				return t.String(), true, nil
			}
		}
		return "", false, nil
	}
}

// Undominated returns a copy of the support without the strategies of the
// given players that are dominated by another pure strategy. It makes one
// pass; callers iterate to a fixed point by calling it again on the result
// until it returns an equal support. A nil players list means every player.
func (s *NfgSupport) Undominated(ctx context.Context, strong bool, players []*gamekit.Player, trace io.Writer) (*NfgSupport, error) {
	return s.undominated(ctx, players, s.dominatedBy(strong), trace)
}

// MixedUndominated is like Undominated, but also eliminates strategies
// dominated by a mixture of the other strategies of their player. The
// linear programs deciding this are solved at the given precision.
func (s *NfgSupport) MixedUndominated(ctx context.Context, strong bool, precision numeric.Precision, players []*gamekit.Player, trace io.Writer) (*NfgSupport, error) {
	var dominatedBy dominatedByFunc[*gamekit.Strategy]
	switch precision {
	case numeric.Rational:
		dominatedBy = mixedDominatedBy[*big.Rat](s, ratField, strong)
	case numeric.Float:
		dominatedBy = mixedDominatedBy[float64](s, floatField, strong)
	default:
		return nil, errors.Errorf("unknown precision %v", precision)
	}
	return s.undominated(ctx, players, dominatedBy, trace)
}

func (s *NfgSupport) undominated(ctx context.Context, players []*gamekit.Player, dominatedBy dominatedByFunc[*gamekit.Strategy], trace io.Writer) (*NfgSupport, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if players == nil {
		players = s.game.Players()
	}

	groups := make([][]*gamekit.Strategy, 0, len(players))
	for _, p := range players {
		if p.Game() != s.game || p.IsChance() {
			return nil, errors.Wrapf(gamekit.ErrStructural, "%v is not a personal player of game %v", p, s.game.ID())
		}
		groups = append(groups, s.Strategies(p))
	}

	dominated, err := eliminate(ctx, groups, dominatedBy, trace)
	if err != nil {
		return nil, err
	}

	result := s.Copy()
	for _, st := range dominated {
		if _, err := result.RemoveStrategy(st); err != nil {
			return nil, err
		}
	}
	return result, nil
}
