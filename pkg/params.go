package pkg

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"sync"
)

var (
	// ErrInvalidParameter indicates lattice parameters outside their domain
	ErrInvalidParameter = errors.New("invalid lattice parameter")

	// ErrUnknownParameterSet indicates a registry lookup miss
	ErrUnknownParameterSet = errors.New("parameter set not found")
)

const (
	// MinAccurateDimension is the smallest lattice dimension for which the
	// estimate is considered meaningful
	MinAccurateDimension = 200
	// MinAccurateBlocksize is the smallest blocksize for which the GSA-based
	// estimate is considered accurate
	MinAccurateBlocksize = 50
	// MinDimension is the smallest dimension whose search bracket [0.2 dim, 0.8 dim]
	// lies above blocksize 1, where the GSA factor is defined
	MinDimension = 6
)

// Parameters describes one primal attack instance
type Parameters struct {
	Name string
	// Dimension is the lattice rank
	Dimension int
	// Volume is the lattice covolume; shared values must not be mutated
	Volume *big.Float
	// SquaredTargetNorm is the squared Euclidean norm of the vector sought
	SquaredTargetNorm *big.Float
	// TargetCount is the number of independent short vectors attacked jointly
	TargetCount int
}

// NewParameters builds a parameter set from float64 volume and squared norm.
// A NaN leaves the field nil, which Validate rejects.
func NewParameters(name string, dimension int, volume, squaredNorm float64, targets int) Parameters {
	return Parameters{
		Name:              name,
		Dimension:         dimension,
		Volume:            newFloat(volume),
		SquaredTargetNorm: newFloat(squaredNorm),
		TargetCount:       targets,
	}
}

func newFloat(x float64) *big.Float {
	if math.IsNaN(x) {
		return nil
	}
	return big.NewFloat(x)
}

// HypercubicParameters returns the Z^dim instance: volume 1, shortest vectors of norm 1
func HypercubicParameters(dimension, targets int) Parameters {
	return NewParameters(fmt.Sprintf("hypercubic-%d", dimension), dimension, 1, 1, targets)
}

// WithTargetCount returns a copy of p attacking n targets
func (p Parameters) WithTargetCount(n int) Parameters {
	p.TargetCount = n
	return p
}

// Validate checks that the parameters lie in the domain of the estimator
func (p Parameters) Validate() error {
	if p.Dimension < MinDimension {
		return fmt.Errorf("%w: dimension %d must be at least %d so that the blocksize search starts above 1",
			ErrInvalidParameter, p.Dimension, MinDimension)
	}
	if p.Volume == nil || p.Volume.Sign() <= 0 || p.Volume.IsInf() {
		return fmt.Errorf("%w: volume must be positive and finite", ErrInvalidParameter)
	}
	if p.SquaredTargetNorm == nil || p.SquaredTargetNorm.Sign() <= 0 || p.SquaredTargetNorm.IsInf() {
		return fmt.Errorf("%w: squared target norm must be positive and finite", ErrInvalidParameter)
	}
	if p.TargetCount < 1 {
		return fmt.Errorf("%w: target count %d must be at least 1", ErrInvalidParameter, p.TargetCount)
	}
	return nil
}

// String returns a one-line description of the instance
func (p Parameters) String() string {
	vol, norm := "<nil>", "<nil>"
	if p.Volume != nil {
		vol = p.Volume.Text('g', 8)
	}
	if p.SquaredTargetNorm != nil {
		norm = p.SquaredTargetNorm.Text('g', 8)
	}
	return fmt.Sprintf("%s(dim=%d, vol=%s, |t|^2=%s, targets=%d)", p.Name, p.Dimension, vol, norm, p.TargetCount)
}

// ParameterRegistry manages named parameter sets
type ParameterRegistry struct {
	mu         sync.RWMutex
	paramSets  map[string]Parameters
	defaultSet string
}

var globalRegistry = &ParameterRegistry{
	paramSets:  make(map[string]Parameters),
	defaultSet: "hypercubic-500",
}

// Initialize the registry with the hypercubic reference instance and the NTRU presets
func init() {
	RegisterParameterSet(HypercubicParameters(500, 1))
	for _, params := range ntruPresets() {
		RegisterParameterSet(params)
	}
}

// RegisterParameterSet adds a parameter set to the registry, replacing any set with the same name
func RegisterParameterSet(params Parameters) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	globalRegistry.paramSets[params.Name] = params
}

// GetParameterSet retrieves a parameter set by name
func GetParameterSet(name string) (Parameters, error) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	params, ok := globalRegistry.paramSets[name]
	if !ok {
		return Parameters{}, fmt.Errorf("%w: %s", ErrUnknownParameterSet, name)
	}

	return params, nil
}

// GetDefaultParameterSet returns the default parameter set
func GetDefaultParameterSet() Parameters {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	return globalRegistry.paramSets[globalRegistry.defaultSet]
}

// SetDefaultParameterSet sets the default parameter set
func SetDefaultParameterSet(name string) error {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if _, ok := globalRegistry.paramSets[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameterSet, name)
	}

	globalRegistry.defaultSet = name
	return nil
}

// ListParameterSets returns the names of all registered parameter sets in sorted order
func ListParameterSets() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	names := make([]string, 0, len(globalRegistry.paramSets))
	for name := range globalRegistry.paramSets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
