package field

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"
)

var (
	// ErrChunkSize reports a non-positive chunk or world size.
	ErrChunkSize = errors.New("field: chunk size and extent must be positive")
	// ErrGridDivision reports an extent that is not a whole number of chunks.
	ErrGridDivision = errors.New("field: extent must be an integer multiple of chunk size")
	// ErrInstances reports an invalid per-chunk instance setup.
	ErrInstances = errors.New("field: invalid instance configuration")
)

// Config controls the layout and blade population of the field.
type Config struct {
	Extent            float32 `yaml:"extent"`
	ChunkSize         float32 `yaml:"chunk_size"`
	InstancesPerChunk int     `yaml:"instances_per_chunk"`

	ScaleMin float32 `yaml:"scale_min"`
	ScaleMax float32 `yaml:"scale_max"`

	BladeHeight  float32 `yaml:"blade_height"`
	BladeWidth   float32 `yaml:"blade_width"`
	HighSegments int     `yaml:"high_segments"`
	LowSegments  int     `yaml:"low_segments"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Extent:            400,
		ChunkSize:         50,
		InstancesPerChunk: 320,
		ScaleMin:          0.7,
		ScaleMax:          1.3,
		BladeHeight:       1.2,
		BladeWidth:        0.12,
		HighSegments:      4,
		LowSegments:       1,
	}
}

// Cols is the number of chunks along each axis. Only meaningful after
// Validate succeeds.
func (c Config) Cols() int {
	return int(math32.Round(c.Extent / c.ChunkSize))
}

// Validate checks the grid division and instance setup.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 || c.Extent <= 0 {
		return fmt.Errorf("%w: extent=%g chunk_size=%g", ErrChunkSize, c.Extent, c.ChunkSize)
	}
	n := c.Extent / c.ChunkSize
	if math32.Abs(n-math32.Round(n)) > 1e-4 || math32.Round(n) < 1 {
		return fmt.Errorf("%w: %g / %g = %g", ErrGridDivision, c.Extent, c.ChunkSize, n)
	}
	var errs []error
	if c.InstancesPerChunk <= 0 {
		errs = append(errs, fmt.Errorf("%w: instances_per_chunk=%d", ErrInstances, c.InstancesPerChunk))
	}
	if c.ScaleMin <= 0 || c.ScaleMax < c.ScaleMin {
		errs = append(errs, fmt.Errorf("%w: scale range [%g, %g]", ErrInstances, c.ScaleMin, c.ScaleMax))
	}
	if c.BladeHeight <= 0 || c.BladeWidth <= 0 {
		errs = append(errs, fmt.Errorf("%w: blade %gx%g", ErrInstances, c.BladeWidth, c.BladeHeight))
	}
	if c.HighSegments < 1 || c.LowSegments < 1 {
		errs = append(errs, fmt.Errorf("%w: segments high=%d low=%d", ErrInstances, c.HighSegments, c.LowSegments))
	}
	return errors.Join(errs...)
}
