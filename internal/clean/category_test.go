package clean

import (
	"testing"

	"github.com/KaramelBytes/recipe-eda/internal/dataset"
)

func TestTercilesEqualFrequency(t *testing.T) {
	values := []float64{600, 100, 400, 200, 500, 300}
	cats, err := Terciles(values)
	if err != nil {
		t.Fatalf("Terciles: %v", err)
	}
	counts := map[dataset.CalorieCategory]int{}
	maxOf := map[dataset.CalorieCategory]float64{}
	minOf := map[dataset.CalorieCategory]float64{}
	for i, c := range cats {
		counts[c]++
		v := values[i]
		if m, ok := maxOf[c]; !ok || v > m {
			maxOf[c] = v
		}
		if m, ok := minOf[c]; !ok || v < m {
			minOf[c] = v
		}
	}
	for _, c := range dataset.CategoryLabels {
		if counts[c] != 2 {
			t.Fatalf("%s count = %d, want 2 (%v)", c, counts[c], cats)
		}
	}
	if !(maxOf[dataset.Low] < minOf[dataset.Medium] && maxOf[dataset.Medium] < minOf[dataset.High]) {
		t.Fatalf("categories not ordered: %v", cats)
	}
	if cats[1] != dataset.Low || cats[0] != dataset.High || cats[5] != dataset.Medium {
		t.Fatalf("unexpected labels: %v", cats)
	}
}

func TestTercileEdgesDropDuplicates(t *testing.T) {
	edges := TercileEdges([]float64{100, 100, 100, 100, 100, 900})
	if len(edges) != 2 || edges[0] != 100 || edges[1] != 900 {
		t.Fatalf("edges = %v, want [100 900]", edges)
	}
}

func TestTercilesHeavyTiesFallBack(t *testing.T) {
	values := []float64{100, 100, 100, 100, 100, 900}
	cats, err := Terciles(values)
	if err != nil {
		t.Fatalf("Terciles: %v", err)
	}
	for i := 0; i < 5; i++ {
		if cats[i] != dataset.Low {
			t.Fatalf("tied value %d = %s, want Low", i, cats[i])
		}
	}
	if cats[5] != dataset.Low {
		t.Fatalf("single remaining bin should be Low, got %s", cats[5])
	}

	values = []float64{1, 1, 1, 2, 3, 3}
	cats, err = Terciles(values)
	if err != nil {
		t.Fatalf("Terciles: %v", err)
	}
	// edges 1, 1, 2.33, 3 -> [1, 2.33] Low, (2.33, 3] Medium
	want := []dataset.CalorieCategory{dataset.Low, dataset.Low, dataset.Low, dataset.Low, dataset.Medium, dataset.Medium}
	for i := range want {
		if cats[i] != want[i] {
			t.Fatalf("cats = %v, want %v", cats, want)
		}
	}
}

func TestTercilesConstantColumn(t *testing.T) {
	cats, err := Terciles([]float64{250, 250, 250})
	if err != nil {
		t.Fatalf("Terciles: %v", err)
	}
	for _, c := range cats {
		if c != dataset.Low {
			t.Fatalf("cats = %v, want all Low", cats)
		}
	}
}

func TestTercilesEmpty(t *testing.T) {
	cats, err := Terciles(nil)
	if err != nil || len(cats) != 0 {
		t.Fatalf("Terciles(nil) = %v, %v", cats, err)
	}
}
