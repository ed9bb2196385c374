package analytics

import (
	"context"
	"testing"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVelocityWindowIsInclusive(t *testing.T) {
	store := &fakeStore{sales: []domain.SalesTransaction{
		{Date: daysFromToday(0), ProductID: 1, LocationID: 1, UnitsSold: 15},
		{Date: daysFromToday(-30), ProductID: 1, LocationID: 1, UnitsSold: 30},
		{Date: daysFromToday(-31), ProductID: 1, LocationID: 1, UnitsSold: 100},
		{Date: daysFromToday(-3), ProductID: 1, LocationID: 2, UnitsSold: 100},
	}}
	est := NewVelocityEstimator(store, 30, fixedClock)

	v, err := est.Velocity(context.Background(), 1, 1, 30)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v, 1e-9)
}

func TestVelocityWithoutSales(t *testing.T) {
	est := NewVelocityEstimator(&fakeStore{}, 30, fixedClock)

	v, err := est.Velocity(context.Background(), 9, 9, 30)
	require.NoError(t, err)
	assert.Zero(t, v)

	v, err = est.Velocity(context.Background(), 9, 9, 0)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestVelocitiesMatchesSinglePair(t *testing.T) {
	store := &fakeStore{}
	store.sellDaily(1, 1, 3, 25)
	store.sellDaily(2, 1, 1, 40)
	est := NewVelocityEstimator(store, 0, fixedClock)
	assert.Equal(t, DefaultVelocityWindowDays, est.WindowDays())

	all, err := est.Velocities(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, all, 2)

	for key, v := range all {
		single, err := est.Velocity(context.Background(), key.ProductID, key.LocationID, 30)
		require.NoError(t, err)
		assert.InDelta(t, single, v, 1e-9)
	}

	assert.InDelta(t, 2.5, all[domain.PairKey{ProductID: 1, LocationID: 1}], 1e-9)
	assert.InDelta(t, 31.0/30.0, all[domain.PairKey{ProductID: 2, LocationID: 1}], 1e-9)
}
