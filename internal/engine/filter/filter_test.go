package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquadex/aquadex/internal/catalog"
	"github.com/aquadex/aquadex/internal/engine/ranker"
)

func wrap(recs ...catalog.Record) []ranker.Result {
	rs := make([]ranker.Result, 0, len(recs))
	for i, rec := range recs {
		rs = append(rs, ranker.Result{DocID: i, Record: rec})
	}
	return rs
}

func f64(v float64) *float64 { return &v }

func TestApplyEmptyFiltersPassThrough(t *testing.T) {
	results := wrap(catalog.Record{"name": "Guppy"})
	assert.Equal(t, results, Apply(results, Filters{}))
}

func TestApplyTemperamentSubstring(t *testing.T) {
	results := wrap(
		catalog.Record{"temperament": "Peaceful"},
		catalog.Record{"temperament": "Semi-aggressive"},
		catalog.Record{"name": "no temperament"},
	)

	kept := Apply(results, Filters{Temperament: "aggressive"})
	require.Len(t, kept, 1)
	assert.Equal(t, 1, kept[0].DocID)

	// Missing string field excludes the record.
	kept = Apply(results, Filters{Temperament: "peaceful"})
	require.Len(t, kept, 1)
	assert.Equal(t, 0, kept[0].DocID)
}

func TestApplyStringFilterNormalizes(t *testing.T) {
	results := wrap(catalog.Record{"care_level": "Easy-Moderate"})
	kept := Apply(results, Filters{CareLevel: "easy moderate"})
	assert.Len(t, kept, 1)
}

func TestApplyMaxSizeBound(t *testing.T) {
	results := wrap(
		catalog.Record{"name": "small", "max_size": 5.0},
		catalog.Record{"name": "large", "max_size": 15.0},
		catalog.Record{"name": "unsized"},
		catalog.Record{"name": "bogus", "max_size": "big"},
	)

	kept := Apply(results, Filters{MaxSize: f64(10)})
	require.Len(t, kept, 3)
	ids := []int{kept[0].DocID, kept[1].DocID, kept[2].DocID}
	// A missing or non-numeric size never excludes a record; 15 does.
	assert.Equal(t, []int{0, 2, 3}, ids)
}

func TestApplyMinTankSizeBound(t *testing.T) {
	results := wrap(
		catalog.Record{"min_tank_size": 20.0},
		catalog.Record{"min_tank_size": 75.0},
	)
	kept := Apply(results, Filters{MinTankSize: f64(40)})
	require.Len(t, kept, 1)
	assert.Equal(t, 0, kept[0].DocID)
}

func TestApplyCombinedFilters(t *testing.T) {
	results := wrap(
		catalog.Record{"temperament": "Peaceful", "diet": "Omnivore", "max_size": 4.0},
		catalog.Record{"temperament": "Peaceful", "diet": "Carnivore", "max_size": 4.0},
		catalog.Record{"temperament": "Peaceful", "diet": "Omnivore", "max_size": 30.0},
	)
	kept := Apply(results, Filters{
		Temperament: "peaceful",
		Diet:        "omnivore",
		MaxSize:     f64(10),
	})
	require.Len(t, kept, 1)
	assert.Equal(t, 0, kept[0].DocID)
}

func TestFiltersEmpty(t *testing.T) {
	assert.True(t, Filters{}.Empty())
	assert.False(t, Filters{Diet: "carnivore"}.Empty())
	assert.False(t, Filters{MaxSize: f64(1)}.Empty())
}
