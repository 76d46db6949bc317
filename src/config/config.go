package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ghodss/yaml"

	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/lib/dot"
	"dotpaccel/src/sim"
)

var ErrInvalid = errors.New("invalid configuration")

// Config drives the host tools.  Every section has a usable default.
type Config struct {
	CPU       string    `json:"cpu,omitempty"`
	Vectors   Vectors   `json:"vectors"`
	Simulator Simulator `json:"simulator"`
	Driver    Driver    `json:"driver"`
	Sweep     Sweep     `json:"sweep"`
	CSR       CSR       `json:"csr"`
	Output    Output    `json:"output"`
}

type Vectors struct {
	A []int64 `json:"a"`
	B []int64 `json:"b"`
}

type Simulator struct {
	Latency      int   `json:"latency"`
	OneShotDone  bool  `json:"oneShotDone,omitempty"`
	ResultOffset int64 `json:"resultOffset,omitempty"`
	Hang         bool  `json:"hang,omitempty"`
	// ClockedPulse makes the simulator's clock run while start is held,
	// instead of a CPU spin loop that the device does not see.
	ClockedPulse bool `json:"clockedPulse,omitempty"`
}

type Driver struct {
	// MaxPolls bounds the wait for done; 0 waits forever.
	MaxPolls int `json:"maxPolls,omitempty"`
}

type Sweep struct {
	Runs    int   `json:"runs,omitempty"`
	Workers int   `json:"workers"`
	Seed    int64 `json:"seed"`
}

type CSR struct {
	File   string `json:"file,omitempty"`
	Prefix string `json:"prefix"`
	Device string `json:"device"`
}

type Output struct {
	TTY string `json:"tty,omitempty"`
}

func Default() *Config {
	return &Config{
		CPU: "VexRiscv (simulated)",
		Vectors: Vectors{
			A: []int64{1, -2, 3, -4, 5, -6, 7, -8},
			B: []int64{8, 7, -6, -5, 4, 3, -2, -1},
		},
		Simulator: Simulator{Latency: sim.DefaultLatency},
		Sweep:     Sweep{Workers: 4, Seed: 1},
		CSR:       CSR{Prefix: dotp.DefaultPrefix, Device: "/dev/mem"},
	}
}

// Load reads a YAML file over the defaults, so a file only needs the
// settings it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, _, err := c.Operands(); err != nil {
		return err
	}
	if c.Simulator.Latency < 1 {
		return fmt.Errorf("%w: simulator latency must be at least 1, got %d", ErrInvalid, c.Simulator.Latency)
	}
	if c.Driver.MaxPolls < 0 {
		return fmt.Errorf("%w: maxPolls cannot be negative", ErrInvalid)
	}
	if c.Simulator.Hang && c.Driver.MaxPolls == 0 {
		return fmt.Errorf("%w: a hung simulator needs driver.maxPolls, or nothing ever returns", ErrInvalid)
	}
	if c.Sweep.Runs < 0 || c.Sweep.Workers < 1 {
		return fmt.Errorf("%w: sweep needs runs >= 0 and workers >= 1, got %d and %d", ErrInvalid, c.Sweep.Runs, c.Sweep.Workers)
	}
	return nil
}

// Operands converts the configured vectors.
func (c *Config) Operands() (dot.Vector, dot.Vector, error) {
	a, err := vector("a", c.Vectors.A)
	if err != nil {
		return a, a, err
	}
	b, err := vector("b", c.Vectors.B)
	return a, b, err
}

func vector(name string, values []int64) (dot.Vector, error) {
	for i, v := range values {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return dot.Vector{}, fmt.Errorf("%w: %s[%d]=%d does not fit in 32 bits", ErrInvalid, name, i, v)
		}
	}
	v, ok := dot.FromInts(values)
	if !ok {
		return v, fmt.Errorf("%w: vector %s needs %d elements, got %d", ErrInvalid, name, dot.Len, len(values))
	}
	return v, nil
}

// SimConfig is the simulator described by the Simulator section.
func (c *Config) SimConfig() sim.Config {
	cfg := sim.Config{
		Latency:     c.Simulator.Latency,
		OneShotDone: c.Simulator.OneShotDone,
		Hang:        c.Simulator.Hang,
	}
	if c.Simulator.ResultOffset != 0 {
		cfg.Fault = sim.ResultOffset(c.Simulator.ResultOffset)
	}
	return cfg
}
