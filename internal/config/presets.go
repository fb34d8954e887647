package config

import "sort"

var Presets = map[string]*Config{
	"reference": {
		Method: "cg",
		Matrix: [][]float64{
			{1, 2, -1},
			{2, 5, -2},
			{-1, -2, 2},
		},
		RHS:       []float64{0, 1, 0},
		Tolerance: 1e-10, MaxSteps: 100, Stride: 1,
	},
	"diagonal": {
		Method: "cg",
		Matrix: [][]float64{
			{2, 0, 0},
			{0, 2, 0},
			{0, 0, 2},
		},
		RHS:       []float64{1, 2, 3},
		Tolerance: 1e-10, MaxSteps: 10, Stride: 1,
	},
	"hilbert4": {
		Method: "cg",
		Matrix: [][]float64{
			{1, 1.0 / 2, 1.0 / 3, 1.0 / 4},
			{1.0 / 2, 1.0 / 3, 1.0 / 4, 1.0 / 5},
			{1.0 / 3, 1.0 / 4, 1.0 / 5, 1.0 / 6},
			{1.0 / 4, 1.0 / 5, 1.0 / 6, 1.0 / 7},
		},
		RHS:       []float64{1, 1, 1, 1},
		Tolerance: 1e-8, MaxSteps: 200, Stride: 1,
	},
	"poisson8": Poisson(8),
}

// Poisson builds the standard 1-dimensional Poisson system: the
// tridiagonal (-1, 2, -1) matrix of size n with an all-ones right-hand
// side. Positive-definite for any n, and a common conjugate gradient
// benchmark.
func Poisson(n int) *Config {
	matrix := make([][]float64, n)
	rhs := make([]float64, n)
	for i := range matrix {
		row := make([]float64, n)
		row[i] = 2
		if i > 0 {
			row[i-1] = -1
		}
		if i < n-1 {
			row[i+1] = -1
		}
		matrix[i] = row
		rhs[i] = 1
	}
	return &Config{
		Method: "cg", Matrix: matrix, RHS: rhs,
		Tolerance: 1e-10, MaxSteps: 4 * n, Stride: 1,
	}
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
