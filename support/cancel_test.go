package support

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/gamekit/numeric"
)

// pollLimitContext is a context that becomes cancelled once it has been
// polled (through Done or Err) more than limit times.
type pollLimitContext struct {
	context.Context
	limit int
	polls int
	done  chan struct{}
}

func newPollLimitContext(limit int) *pollLimitContext {
	return &pollLimitContext{
		Context: context.Background(),
		limit:   limit,
		done:    make(chan struct{}),
	}
}

func (c *pollLimitContext) poll() bool {
	c.polls++
	if c.polls == c.limit+1 {
		close(c.done)
	}
	return c.polls > c.limit
}

func (c *pollLimitContext) Done() <-chan struct{} {
	c.poll()
	return c.done
}

func (c *pollLimitContext) Err() error {
	if c.poll() {
		return context.Canceled
	}
	return nil
}

// sweepCancellation runs f with contexts that expire after 1, 2, ...
// polls until it completes, and checks that every run either fails with
// ErrCancelled and no result or produces want. It returns the number of
// runs that were cancelled.
func sweepCancellation(t *testing.T, want string, f func(ctx context.Context) (fmt.Stringer, error)) int {
	t.Helper()
	cancelled := 0
	for limit := 1; ; limit++ {
		require.Less(t, limit, 10000, "computation never completed")
		result, err := f(newPollLimitContext(limit))
		if err != nil {
			require.ErrorIs(t, err, ErrCancelled, "limit %d", limit)
			cancelled++
			continue
		}
		assert.Equal(t, want, result.String(), "limit %d", limit)
		return cancelled
	}
}

func TestMixedUndominated_CancelledMidEnumeration(t *testing.T) {
	for _, precision := range []numeric.Precision{numeric.Rational, numeric.Float} {
		t.Run(precision.String(), func(t *testing.T) {
			g := newMixedStrict(t)
			s := NewNfgSupport(g)

			cancelled := sweepCancellation(t, `{{"T" "M"} {"L" "R"}}`, func(ctx context.Context) (fmt.Stringer, error) {
				result, err := s.MixedUndominated(ctx, true, precision, nil, nil)
				if err != nil {
					assert.Nil(t, result)
					return nil, err
				}
				return result, nil
			})
			// Polls happen per candidate, per contingency and per pivot.
			assert.Greater(t, cancelled, g.Player(1).NumStrategies())
			assert.Equal(t, `{{"T" "M" "B"} {"L" "R"}}`, s.String(), "the receiver is unchanged")
		})
	}
}

func TestUndominated_CancelledMidEnumeration(t *testing.T) {
	g := newMixedStrict(t)
	s := NewNfgSupport(g)
	cancelled := sweepCancellation(t, `{{"T" "M" "B"} {"L" "R"}}`, func(ctx context.Context) (fmt.Stringer, error) {
		result, err := s.Undominated(ctx, true, nil, nil)
		if err != nil {
			assert.Nil(t, result)
			return nil, err
		}
		return result, nil
	})
	assert.Greater(t, cancelled, 0)
}

func TestEfgUndominated_CancelledMidEnumeration(t *testing.T) {
	for _, conditional := range []bool{false, true} {
		g := newSequential(t)
		s, err := NewEfgSupport(g)
		require.NoError(t, err)

		want, err := s.Undominated(context.Background(), false, conditional, nil, nil)
		require.NoError(t, err)
		cancelled := sweepCancellation(t, want.String(), func(ctx context.Context) (fmt.Stringer, error) {
			result, err := s.Undominated(ctx, false, conditional, nil, nil)
			if err != nil {
				assert.Nil(t, result)
				return nil, err
			}
			return result, nil
		})
		assert.Greater(t, cancelled, 1, "conditional=%v", conditional)
	}
}
