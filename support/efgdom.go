package support

import (
	"context"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit"
)

// Dominates returns whether action a dominates action b at their common
// infoset for the player who moves there.
//
// Unconditional dominance compares the payoffs from the root of every pure
// behavior profile of the support, with a and then b chosen at the
// infoset. Conditional dominance compares, at each reachable member of the
// infoset, the payoffs of continuing with a and with b, ranging only over
// the infosets that can still be reached after them; if no member is
// reachable every member is compared.
func (s *EfgSupport) Dominates(ctx context.Context, a, b *gamekit.Action, strong, conditional bool) (bool, error) {
	if err := s.checkAction(a); err != nil {
		return false, err
	}
	if err := s.checkAction(b); err != nil {
		return false, err
	}
	infoset := a.Infoset()
	if b.Infoset() != infoset {
		return false, errors.Wrapf(gamekit.ErrStructural, "%v and %v are actions of different infosets", a, b)
	}

	cmp := compare{strong: strong}
	var ok bool
	var err error
	if conditional {
		ok, err = s.dominatesConditional(ctx, a, b, &cmp)
	} else {
		ok, err = s.dominatesUnconditional(ctx, a, b, &cmp)
	}
	if err != nil || !ok {
		return false, err
	}
	return cmp.result(), nil
}

func (s *EfgSupport) dominatesUnconditional(ctx context.Context, a, b *gamekit.Action, cmp *compare) (bool, error) {
	var infosets []*gamekit.Infoset
	for _, p := range s.game.Players() {
		infosets = append(infosets, p.Infosets()...)
	}

	it := gamekit.NewBehavIter(s, infosets)
	it.Freeze(a)
	return s.compareProfiles(ctx, it, a, b, s.game.Root(), s.game.Root(), cmp)
}

func (s *EfgSupport) dominatesConditional(ctx context.Context, a, b *gamekit.Action, cmp *compare) (bool, error) {
	infoset := a.Infoset()
	nodes := s.reachableMembers(infoset)
	if len(nodes) == 0 {
		nodes = infoset.Members()
	}

	for _, n := range nodes {
		var infosets []*gamekit.Infoset
		seen := make(map[*gamekit.Infoset]bool)
		after := infosetsOf(s.reachableFrom(n.ChildFor(a), nil))
		after = append(after, infosetsOf(s.reachableFrom(n.ChildFor(b), nil))...)
		for _, t := range after {
			if !t.IsChance() && t != infoset && !seen[t] {
				seen[t] = true
				infosets = append(infosets, t)
			}
		}

		it := gamekit.NewBehavIter(s, infosets)
		it.Freeze(a)
		ok, err := s.compareProfiles(ctx, it, a, b, n.ChildFor(a), n.ChildFor(b), cmp)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// compareProfiles compares, for every profile of it, the payoff to the
// mover of playing a from fromA with that of playing b from fromB. It
// returns false as soon as dominance is disproved.
func (s *EfgSupport) compareProfiles(ctx context.Context, it *gamekit.BehavIter, a, b *gamekit.Action, fromA, fromB *gamekit.Node, cmp *compare) (bool, error) {
	infoset := a.Infoset()
	player := infoset.Player().ID() - 1
	for it.Next() {
		if err := checkContext(ctx); err != nil {
			return false, err
		}

		profile := it.Profile()
		ap, err := s.game.PurePayoff(fromA, profile)
		if err != nil {
			return false, err
		}
		profile[infoset] = b
		bp, err := s.game.PurePayoff(fromB, profile)
		profile[infoset] = a
		if err != nil {
			return false, err
		}

		if glog.V(3) {
			glog.Infof("%v vs %v: %v vs %v", a, b, ap[player], bp[player])
		}
		if !cmp.next(ap[player].Cmp(bp[player])) {
			return false, nil
		}
	}
	return true, nil
}

// IsDominated returns whether another action of its infoset in the support
// dominates a.
func (s *EfgSupport) IsDominated(ctx context.Context, a *gamekit.Action, strong, conditional bool) (bool, error) {
	if err := s.checkAction(a); err != nil {
		return false, err
	}
	_, dominated, err := s.dominatedBy(strong, conditional)(ctx, a, s.rivals(a))
	return dominated, err
}

func (s *EfgSupport) rivals(a *gamekit.Action) []*gamekit.Action {
	var result []*gamekit.Action
	for _, b := range s.Actions(a.Infoset()) {
		if b != a {
			result = append(result, b)
		}
	}
	return result
}

func (s *EfgSupport) dominatedBy(strong, conditional bool) dominatedByFunc[*gamekit.Action] {
	return func(ctx context.Context, a *gamekit.Action, rivals []*gamekit.Action) (string, bool, error) {
		for _, b := range rivals {
			dominates, err := s.Dominates(ctx, b, a, strong, conditional)
			if err != nil {
				return "", false, err
			}
			if dominates {
				return b.String(), true, nil
			}
		}
		return "", false, nil
	}
}

// Undominated returns a copy of the support without the actions of the
// given players that are dominated at their infosets. Like the normal form
// version it makes a single pass. A nil players list means every player.
func (s *EfgSupport) Undominated(ctx context.Context, strong, conditional bool, players []*gamekit.Player, trace io.Writer) (*EfgSupport, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if players == nil {
		players = s.game.Players()
	}

	var groups [][]*gamekit.Action
	for _, p := range players {
		if p.Game() != s.game || p.IsChance() {
			return nil, errors.Wrapf(gamekit.ErrStructural, "%v is not a personal player of game %v", p, s.game.ID())
		}
		for _, infoset := range p.Infosets() {
			groups = append(groups, s.Actions(infoset))
		}
	}

	dominated, err := eliminate(ctx, groups, s.dominatedBy(strong, conditional), trace)
	if err != nil {
		return nil, err
	}

	result := s.Copy()
	for _, a := range dominated {
		if _, err := result.RemoveAction(a); err != nil {
			return nil, err
		}
	}
	return result, nil
}
