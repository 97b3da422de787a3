package field

import (
	"cogentcore.org/core/math32"

	"meadow/internal/core"
)

// Instance is the immutable transform of one blade.
type Instance struct {
	Position math32.Vector3
	Yaw      float32
	Scale    float32
}

// Batch pairs a blade geometry with the instances drawn with it.
type Batch struct {
	Geometry  *Blade
	Instances []Instance
}

// Chunk is one tile of the world grid.
type Chunk struct {
	I, J   int
	Center math32.Vector3
	Min    math32.Vector2
	Max    math32.Vector2

	High Batch
	Low  Batch
}

// Field is the generated, static vegetation grid.
type Field struct {
	cfg  Config
	grid *core.Grid[Chunk]
	high *Blade
	low  *Blade
}

// Generate partitions the world into chunks and populates each one with
// randomized blade transforms. The result is deterministic for a seed.
func Generate(cfg Config, seed int64) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cols := cfg.Cols()
	f := &Field{
		cfg:  cfg,
		grid: core.NewGrid[Chunk](cols, cols),
		high: NewBlade(cfg.HighSegments, cfg.BladeWidth, cfg.BladeHeight),
		low:  NewBlade(cfg.LowSegments, cfg.BladeWidth, cfg.BladeHeight),
	}
	rng := core.NewRNG(seed)
	origin := -cfg.Extent / 2
	for j := 0; j < cols; j++ {
		for i := 0; i < cols; i++ {
			min := math32.Vec2(origin+float32(i)*cfg.ChunkSize, origin+float32(j)*cfg.ChunkSize)
			max := math32.Vec2(min.X+cfg.ChunkSize, min.Y+cfg.ChunkSize)
			instances := make([]Instance, cfg.InstancesPerChunk)
			for k := range instances {
				instances[k] = Instance{
					Position: math32.Vec3(rng.Range(min.X, max.X), 0, rng.Range(min.Y, max.Y)),
					Yaw:      rng.Angle(),
					Scale:    rng.Range(cfg.ScaleMin, cfg.ScaleMax),
				}
			}
			*f.grid.At(i, j) = Chunk{
				I:      i,
				J:      j,
				Center: math32.Vec3((min.X+max.X)/2, 0, (min.Y+max.Y)/2),
				Min:    min,
				Max:    max,
				High:   Batch{Geometry: f.high, Instances: instances},
				Low:    Batch{Geometry: f.low, Instances: instances},
			}
		}
	}
	return f, nil
}

// Config returns the configuration the field was generated with.
func (f *Field) Config() Config { return f.cfg }

// Cols is the number of chunks along each axis.
func (f *Field) Cols() int { return f.grid.W }

// Chunks exposes all chunks in row-major (j, i) order.
func (f *Field) Chunks() []Chunk { return f.grid.Cells() }

// Chunk returns the chunk at grid coordinates (i, j).
func (f *Field) Chunk(i, j int) *Chunk { return f.grid.At(i, j) }

// HighBlade and LowBlade expose the two shared tessellations.
func (f *Field) HighBlade() *Blade { return f.high }

func (f *Field) LowBlade() *Blade { return f.low }

// InstanceCount is the total number of blades in the field.
func (f *Field) InstanceCount() int { return f.grid.Len() * f.cfg.InstancesPerChunk }

// TileOffset returns the translation, a whole multiple of the extent on X
// and Z, that places a copy of the tile holding center nearest to camera.
// Repeating the tile this way makes the fixed grid read as an endless field.
func (f *Field) TileOffset(center, camera math32.Vector3) math32.Vector3 {
	e := f.cfg.Extent
	ox := math32.Round((camera.X-center.X)/e) * e
	oz := math32.Round((camera.Z-center.Z)/e) * e
	return math32.Vec3(ox, 0, oz)
}

// ChunkAt returns the chunk whose tile, repeated infinitely, covers the
// world position p.
func (f *Field) ChunkAt(p math32.Vector3) *Chunk {
	e := f.cfg.Extent
	half := e / 2
	lx := p.X + half - math32.Floor((p.X+half)/e)*e
	lz := p.Z + half - math32.Floor((p.Z+half)/e)*e
	i := int(lx / f.cfg.ChunkSize)
	j := int(lz / f.cfg.ChunkSize)
	i = math32.Clamp(i, 0, f.grid.W-1)
	j = math32.Clamp(j, 0, f.grid.H-1)
	return f.grid.At(i, j)
}
