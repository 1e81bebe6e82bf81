package cart

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository_Mutations(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	mango := Item{ID: "p1", Name: "Mango", Price: d("120")}

	c, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Version)

	c, err = repo.Update(ctx, "u1", Add(mango, 2))
	require.NoError(t, err)
	c, err = repo.Update(ctx, "u1", Add(mango, 3))
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items["p1"].Quantity)
	assert.Equal(t, int64(2), c.Version)

	c, err = repo.Update(ctx, "u1", ChangeQuantity("p1", -1))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Items["p1"].Quantity)

	c, err = repo.Update(ctx, "u1", ChangeQuantity("p1", -10))
	require.NoError(t, err)
	_, present := c.Items["p1"]
	assert.False(t, present, "quantity <= 0 must remove the entry")

	_, err = repo.Update(ctx, "u1", ChangeQuantity("p1", 1))
	assert.ErrorIs(t, err, ErrItemNotFound)

	c, err = repo.Update(ctx, "u1", Remove("missing"))
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestInMemoryRepository_FailedMutationLeavesCart(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	_, err := repo.Update(ctx, "u1", Add(Item{ID: "p1"}, 1))
	require.NoError(t, err)

	_, err = repo.Update(ctx, "u1", Add(Item{ID: "p2"}, 0))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	c, _ := repo.Get(ctx, "u1")
	assert.Len(t, c.Items, 1)
	assert.Equal(t, int64(1), c.Version)
}

func TestInMemoryRepository_QuantityIsCapped(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	rice := Item{ID: "p1", Name: "Rice", Price: d("40")}

	_, err := repo.Update(ctx, "u1", Add(rice, math.MaxInt))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	c, err := repo.Update(ctx, "u1", Add(rice, MaxQuantity))
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, c.Items["p1"].Quantity)

	_, err = repo.Update(ctx, "u1", Add(rice, 1))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = repo.Update(ctx, "u1", ChangeQuantity("p1", 1))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = repo.Update(ctx, "u1", ChangeQuantity("p1", math.MaxInt))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = repo.Update(ctx, "u1", ChangeQuantity("p1", math.MinInt))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	c, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, c.Items["p1"].Quantity, "rejected writes leave the entry untouched")
	assert.Equal(t, int64(1), c.Version)

	c, err = repo.Update(ctx, "u1", ChangeQuantity("p1", -MaxQuantity))
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestInMemoryRepository_ConcurrentAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	item := Item{ID: "p1", Name: "Rice", Price: d("40")}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Update(ctx, "u1", Add(item, 2))
		}()
	}
	wg.Wait()

	c, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 100, c.Items["p1"].Quantity)
	assert.Equal(t, int64(50), c.Version)
}

func TestCart_LinesSorted(t *testing.T) {
	c := Cart{Items: map[string]Item{
		"3": {ID: "3", Name: "Banana"},
		"1": {ID: "1", Name: "Apple"},
		"2": {ID: "2", Name: "Apple"},
	}}
	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{lines[0].ID, lines[1].ID, lines[2].ID})
}
