package engine

import (
	"fmt"
	"testing"

	"github.com/aquadex/aquadex/internal/catalog"
	"github.com/aquadex/aquadex/internal/engine/synonyms"
	"github.com/aquadex/aquadex/pkg/config"
)

var benchTemperaments = []string{"Peaceful", "Semi-aggressive", "Aggressive"}
var benchDiets = []string{"Omnivore", "Carnivore", "Herbivore"}

func syntheticCorpus(n int) []catalog.Record {
	corpus := make([]catalog.Record, 0, n)
	for i := 0; i < n; i++ {
		corpus = append(corpus, catalog.Record{
			"name":        fmt.Sprintf("Species %d Tetra", i),
			"species":     fmt.Sprintf("Hyphessobrycon variant%d", i),
			"temperament": benchTemperaments[i%len(benchTemperaments)],
			"diet":        benchDiets[i%len(benchDiets)],
			"description": "a schooling fish for planted community tanks that prefers soft water",
			"max_size":    float64(2 + i%30),
		})
	}
	return corpus
}

func BenchmarkBuildIndex(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		corpus := syntheticCorpus(n)
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			e := New(config.DefaultFields(), synonyms.Default())
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e.BuildIndex(corpus)
			}
		})
	}
}

func BenchmarkSearch(b *testing.B) {
	queries := []struct {
		name  string
		query string
	}{
		{"attribute", "peaceful"},
		{"synonym", "docile"},
		{"name_prefix", "tetr"},
		{"phrase", "peaceful schooling fish"},
	}
	e := New(config.DefaultFields(), synonyms.Default())
	e.BuildIndex(syntheticCorpus(1000))

	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := e.Search(q.query, 100, 0.01); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSearchParallel(b *testing.B) {
	e := New(config.DefaultFields(), synonyms.Default())
	e.BuildIndex(syntheticCorpus(1000))

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := e.Search("peaceful schooling", 100, 0.01); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkAutocomplete(b *testing.B) {
	e := New(config.DefaultFields(), synonyms.Default())
	e.BuildIndex(syntheticCorpus(1000))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = e.Autocomplete("pea", 10)
	}
}
