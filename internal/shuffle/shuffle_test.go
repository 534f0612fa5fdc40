package shuffle

import (
	"fmt"
	"reflect"
	"sort"
	"testing"
)

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("st_%03d", i)
	}
	return out
}

func TestSort_StablePerSeed(t *testing.T) {
	a := ids(100)
	b := ids(100)
	Sort("abc", a)
	Sort("abc", b)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed must yield the same order")
	}
}

func TestSort_DifferentSeeds(t *testing.T) {
	a := ids(100)
	b := ids(100)
	Sort("abc", a)
	Sort("xyz", b)
	if reflect.DeepEqual(a, b) {
		t.Error("different seeds should yield different orders")
	}
}

func TestSort_IsPermutation(t *testing.T) {
	in := ids(50)
	Sort("default", in)
	sorted := append([]string(nil), in...)
	sort.Strings(sorted)
	if !reflect.DeepEqual(sorted, ids(50)) {
		t.Error("Sort must permute, not add or drop ids")
	}
}

func TestSort_IndependentOfInputOrder(t *testing.T) {
	a := ids(30)
	b := ids(30)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	Sort("seed", a)
	Sort("seed", b)
	if !reflect.DeepEqual(a, b) {
		t.Error("order must depend only on seed and ids")
	}
}

func TestKey_SeparatesSeedAndID(t *testing.T) {
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("seed/id boundary must affect the key")
	}
}

func TestWindow(t *testing.T) {
	in := ids(10)
	tests := []struct {
		name       string
		skip, take int
		want       int
	}{
		{"first page", 0, 4, 4},
		{"last partial", 8, 4, 2},
		{"past end", 10, 4, 0},
		{"zero take", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Window(in, tt.skip, tt.take); len(got) != tt.want {
				t.Errorf("Window(%d, %d) len = %d, want %d", tt.skip, tt.take, len(got), tt.want)
			}
		})
	}
}
