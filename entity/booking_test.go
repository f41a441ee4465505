package entity_test

import (
	"testing"

	"station/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePlacement(t *testing.T) {
	train := entity.Train{
		Name:          "Intercity 728",
		CargoNum:      20,
		PlacesInCargo: 30,
	}

	t.Run("within bounds", func(t *testing.T) {
		require.NoError(t, entity.ValidatePlacement(1, 1, train))
		require.NoError(t, entity.ValidatePlacement(20, 30, train))
		require.NoError(t, entity.ValidatePlacement(7, 15, train))
	})

	t.Run("cargo out of range", func(t *testing.T) {
		for _, cargo := range []int{0, -1, 21} {
			err := entity.ValidatePlacement(cargo, 1, train)
			require.Error(t, err)

			fe, ok := entity.AsFieldErrors(err)
			require.True(t, ok)
			require.Len(t, fe["cargo"], 1)
			assert.Contains(t, fe["cargo"][0], "Cargo must be between [1, 20]")
			assert.Empty(t, fe["seat"])
		}
	})

	t.Run("seat out of range", func(t *testing.T) {
		for _, seat := range []int{0, -3, 31} {
			err := entity.ValidatePlacement(1, seat, train)
			require.Error(t, err)

			fe, ok := entity.AsFieldErrors(err)
			require.True(t, ok)
			require.Len(t, fe["seat"], 1)
			assert.Contains(t, fe["seat"][0], "Seat must be between [1, 30]")
			assert.Empty(t, fe["cargo"])
		}
	})

	t.Run("both out of range", func(t *testing.T) {
		err := entity.ValidatePlacement(0, 31, train)
		require.Error(t, err)

		fe, ok := entity.AsFieldErrors(err)
		require.True(t, ok)
		assert.Len(t, fe["cargo"], 1)
		assert.Len(t, fe["seat"], 1)
	})
}

func TestTrainCapacity(t *testing.T) {
	train := entity.Train{CargoNum: 20, PlacesInCargo: 30}
	assert.Equal(t, 600, train.Capacity())
}

func TestCrewFullName(t *testing.T) {
	crew := entity.Crew{FirstName: "Olena", LastName: "Shevchenko"}
	assert.Equal(t, "Olena Shevchenko", crew.FullName())
}
