package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatches(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want [][2]int
	}{
		{"empty", 0, 10, nil},
		{"single run", 3, 10, [][2]int{{0, 3}}},
		{"exact split", 4, 2, [][2]int{{0, 2}, {2, 4}}},
		{"remainder", 5, 2, [][2]int{{0, 2}, {2, 4}, {4, 5}}},
		{"unbounded", 5, 0, [][2]int{{0, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][2]int
			for start, end := range Batches(tt.n, tt.size) {
				got = append(got, [2]int{start, end})
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBatchesStopsEarly(t *testing.T) {
	var runs int
	for range Batches(10, 1) {
		runs++
		if runs == 3 {
			break
		}
	}
	assert.Equal(t, 3, runs)
}
