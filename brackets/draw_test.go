package brackets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencourt/tennis-tour/models"
)

type fakePool struct {
	mu     sync.Mutex
	nextID int
	calls  []poolCall
	err    error
}

type poolCall struct {
	category models.PlayerCategory
	count    int
	exclude  []int
}

func (p *fakePool) DrawUnseeded(_ context.Context, category models.PlayerCategory, count int, exclude []int) ([]models.Player, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.calls = append(p.calls, poolCall{category: category, count: count, exclude: append([]int(nil), exclude...)})

	players := make([]models.Player, count)
	for i := range players {
		p.nextID++
		players[i] = models.Player{ID: p.nextID}
	}
	return players, nil
}

type fakeCreator struct {
	mu      sync.Mutex
	nextID  int
	matches []*models.Match
}

func (c *fakeCreator) CreateMatch(_ context.Context, match *models.Match) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	copied := *match
	copied.ID = c.nextID
	c.matches = append(c.matches, &copied)
	return c.nextID, nil
}

func (c *fakeCreator) byNumber(round models.MatchRound, number int) *models.Match {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.matches {
		if m.Round == round && m.Number == number {
			return m
		}
	}
	return nil
}

func TestDrawGeneratorGenerate(t *testing.T) {
	t.Run("reduced table produces seven matches per bracket", func(t *testing.T) {
		pool := &fakePool{}
		creator := &fakeCreator{}
		generator := NewDrawGenerator(pool, creator, ReducedRoundTable)

		draw, err := generator.Generate(context.Background(), models.CategoryT250, 9)
		require.NoError(t, err)

		assert.Len(t, draw.Singles.ATP, 7)
		assert.Len(t, draw.Singles.WTA, 7)
		assert.Len(t, draw.Doubles.ATP, 7)
		assert.Len(t, draw.Doubles.WTA, 7)
		assert.Len(t, creator.matches, 28)
	})

	t.Run("match numbers run contiguously across rounds", func(t *testing.T) {
		pool := &fakePool{}
		creator := &fakeCreator{}
		generator := NewDrawGenerator(pool, creator, ReducedRoundTable)

		_, err := generator.Generate(context.Background(), models.CategoryT250, 9)
		require.NoError(t, err)

		quarters := 0
		for _, m := range creator.matches {
			if m.Round == models.RoundQuarter {
				quarters++
				assert.GreaterOrEqual(t, m.Number, 1)
				assert.LessOrEqual(t, m.Number, 4)
			}
			if m.Round == models.RoundSemi {
				assert.GreaterOrEqual(t, m.Number, 5)
				assert.LessOrEqual(t, m.Number, 6)
			}
			if m.Round == models.RoundFinal {
				assert.Equal(t, 7, m.Number)
			}
		}
		assert.Equal(t, 16, quarters)
	})

	t.Run("first round matches carry drawn players, later rounds placeholders", func(t *testing.T) {
		pool := &fakePool{}
		creator := &fakeCreator{}
		generator := NewDrawGenerator(pool, creator, ReducedRoundTable)

		_, err := generator.Generate(context.Background(), models.CategoryT250, 9)
		require.NoError(t, err)

		for _, m := range creator.matches {
			if m.Round == models.RoundQuarter {
				assert.NotNil(t, m.Team1.Player1, "first round match %d should carry players", m.Number)
				assert.NotNil(t, m.Team2.Player1)
			} else {
				assert.Nil(t, m.Team1.Player1, "later round match %d should be a placeholder", m.Number)
				assert.Nil(t, m.Team2.Player1)
			}
			assert.Equal(t, models.MatchStateNotBegun, m.State)
			assert.Equal(t, 9, m.CalendarID)
		}
	})

	t.Run("exclusion accumulates within the first round", func(t *testing.T) {
		pool := &fakePool{}
		creator := &fakeCreator{}
		generator := NewDrawGenerator(pool, creator, ReducedRoundTable)

		_, err := generator.Generate(context.Background(), models.CategoryT250, 9)
		require.NoError(t, err)

		// Group calls per category: 4 quarterfinal draws per singles
		// bracket, the exclusion list growing by 2 each time.
		perCategory := map[models.PlayerCategory][]poolCall{}
		for _, call := range pool.calls {
			if call.count == 2 {
				perCategory[call.category] = append(perCategory[call.category], call)
			}
		}
		for category, calls := range perCategory {
			require.Len(t, calls, 4, "category %s", category)
			sizes := []int{len(calls[0].exclude), len(calls[1].exclude), len(calls[2].exclude), len(calls[3].exclude)}
			assert.ElementsMatch(t, []int{0, 2, 4, 6}, sizes)
		}
	})

	t.Run("pool failure aborts the draw", func(t *testing.T) {
		pool := &fakePool{err: errors.New("pool exhausted")}
		creator := &fakeCreator{}
		generator := NewDrawGenerator(pool, creator, ReducedRoundTable)

		draw, err := generator.Generate(context.Background(), models.CategoryT250, 9)
		require.Error(t, err)
		assert.Nil(t, draw)
		assert.ErrorContains(t, err, "pool exhausted")
	})
}
