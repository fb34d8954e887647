package config

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/itersolve/internal/solver"
)

const (
	DefaultTolerance    = 1e-10
	DefaultMaxSteps     = 1000
	DefaultStride       = 1
	DefaultBreakdownTol = 1e-300
)

type Config struct {
	Method       string      `yaml:"method"`
	Matrix       [][]float64 `yaml:"matrix"`
	RHS          []float64   `yaml:"rhs"`
	InitialGuess []float64   `yaml:"initial_guess,omitempty"`
	Tolerance    float64     `yaml:"tolerance"`
	MaxSteps     int         `yaml:"max_steps"`
	Stride       int         `yaml:"stride"`
	BreakdownTol float64     `yaml:"breakdown_tol"`
	Checkpoint   string      `yaml:"checkpoint,omitempty"`
	Seed         int64       `yaml:"seed,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Method: "cg",
		Matrix: [][]float64{
			{1, 2, -1},
			{2, 5, -2},
			{-1, -2, 2},
		},
		RHS:          []float64{0, 1, 0},
		Tolerance:    DefaultTolerance,
		MaxSteps:     DefaultMaxSteps,
		Stride:       DefaultStride,
		BreakdownTol: DefaultBreakdownTol,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// System assembles the linear system described by the config.
func (c *Config) System() (*solver.LinearSystem, error) {
	n := len(c.Matrix)
	if n == 0 {
		return nil, fmt.Errorf("config: empty matrix")
	}
	flat := make([]float64, 0, n*n)
	for i, row := range c.Matrix {
		if len(row) != n {
			return nil, fmt.Errorf("config: matrix row %d has %d entries, want %d", i, len(row), n)
		}
		flat = append(flat, row...)
	}
	return solver.NewLinearSystem(mat.NewDense(n, n, flat), c.RHS)
}

// Normalize fills in zero-valued tuning fields with defaults.
func (c *Config) Normalize() {
	if c.Method == "" {
		c.Method = "cg"
	}
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.Stride < 1 {
		c.Stride = DefaultStride
	}
	if c.BreakdownTol <= 0 {
		c.BreakdownTol = DefaultBreakdownTol
	}
}
