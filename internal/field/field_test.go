package field

import (
	"errors"
	"testing"

	"cogentcore.org/core/math32"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Extent = 40
	cfg.ChunkSize = 10
	cfg.InstancesPerChunk = 25
	return cfg
}

func TestGenerateTilesWorldWithoutGaps(t *testing.T) {
	cfg := smallConfig()
	f, err := Generate(cfg, 7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if f.Cols() != 4 || len(f.Chunks()) != 16 {
		t.Fatalf("expected 4x4 chunks, got %d cols, %d chunks", f.Cols(), len(f.Chunks()))
	}

	var area float32
	for _, c := range f.Chunks() {
		area += (c.Max.X - c.Min.X) * (c.Max.Y - c.Min.Y)
		if i := f.Chunk(c.I, c.J); i.Min != c.Min {
			t.Fatalf("chunk (%d,%d) stored out of place", c.I, c.J)
		}
		if c.I > 0 {
			left := f.Chunk(c.I-1, c.J)
			if left.Max.X != c.Min.X {
				t.Fatalf("gap or overlap on X between chunks %d and %d: %f vs %f", c.I-1, c.I, left.Max.X, c.Min.X)
			}
		}
		if c.J > 0 {
			below := f.Chunk(c.I, c.J-1)
			if below.Max.Y != c.Min.Y {
				t.Fatalf("gap or overlap on Z between rows %d and %d", c.J-1, c.J)
			}
		}
	}
	if math32.Abs(area-cfg.Extent*cfg.Extent) > 1e-3 {
		t.Fatalf("chunks cover %f, want %f", area, cfg.Extent*cfg.Extent)
	}
	first := f.Chunk(0, 0)
	last := f.Chunk(3, 3)
	if first.Min.X != -20 || first.Min.Y != -20 || last.Max.X != 20 || last.Max.Y != 20 {
		t.Fatalf("grid not centered on origin: %v .. %v", first.Min, last.Max)
	}
}

func TestGenerateInstancesInsideChunkBounds(t *testing.T) {
	cfg := smallConfig()
	f, err := Generate(cfg, 3)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, c := range f.Chunks() {
		if len(c.High.Instances) != cfg.InstancesPerChunk || len(c.Low.Instances) != cfg.InstancesPerChunk {
			t.Fatalf("chunk (%d,%d) has %d/%d instances", c.I, c.J, len(c.High.Instances), len(c.Low.Instances))
		}
		for k, inst := range c.High.Instances {
			if inst.Position.X < c.Min.X || inst.Position.X >= c.Max.X || inst.Position.Z < c.Min.Y || inst.Position.Z >= c.Max.Y {
				t.Fatalf("instance %d at %v escapes chunk (%d,%d)", k, inst.Position, c.I, c.J)
			}
			if inst.Scale < cfg.ScaleMin || inst.Scale > cfg.ScaleMax {
				t.Fatalf("instance %d scale %f outside range", k, inst.Scale)
			}
			if inst.Yaw < 0 || inst.Yaw >= 2*math32.Pi {
				t.Fatalf("instance %d yaw %f outside [0,2π)", k, inst.Yaw)
			}
			if c.Low.Instances[k] != inst {
				t.Fatal("detail levels must share per-instance transforms")
			}
		}
		if c.High.Geometry.Segments == c.Low.Geometry.Segments {
			t.Fatal("detail levels must differ in tessellation")
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := smallConfig()
	a, _ := Generate(cfg, 11)
	b, _ := Generate(cfg, 11)
	c, _ := Generate(cfg, 12)
	if a.Chunk(2, 1).High.Instances[4] != b.Chunk(2, 1).High.Instances[4] {
		t.Fatal("same seed should produce identical fields")
	}
	if a.Chunk(2, 1).High.Instances[4] == c.Chunk(2, 1).High.Instances[4] {
		t.Fatal("different seeds should produce different fields")
	}
}

func TestValidateRejectsBadSizing(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
		want error
	}{
		{"zero chunk", func(c *Config) { c.ChunkSize = 0 }, ErrChunkSize},
		{"negative chunk", func(c *Config) { c.ChunkSize = -5 }, ErrChunkSize},
		{"non-integer division", func(c *Config) { c.ChunkSize = 15 }, ErrGridDivision},
		{"chunk larger than world", func(c *Config) { c.ChunkSize = 100 }, ErrGridDivision},
		{"no instances", func(c *Config) { c.InstancesPerChunk = 0 }, ErrInstances},
		{"inverted scale", func(c *Config) { c.ScaleMin = 2; c.ScaleMax = 1 }, ErrInstances},
	}
	for _, tc := range cases {
		cfg := smallConfig()
		tc.mut(&cfg)
		if _, err := Generate(cfg, 1); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestBladeTessellation(t *testing.T) {
	low := NewBlade(1, 0.2, 1)
	if len(low.Triangles) != 1 || len(low.Vertices) != 3 {
		t.Fatalf("single segment blade should be one triangle, got %d tris %d verts", len(low.Triangles), len(low.Vertices))
	}
	high := NewBlade(4, 0.2, 1)
	if len(high.Triangles) != 7 {
		t.Fatalf("four segment blade should have 7 triangles, got %d", len(high.Triangles))
	}
	for _, tri := range high.Triangles {
		for _, v := range tri {
			if v < 0 || v >= len(high.Vertices) {
				t.Fatalf("triangle references vertex %d of %d", v, len(high.Vertices))
			}
		}
	}
	if got := high.HeightPercent(high.Vertices[len(high.Vertices)-1]); got != 1 {
		t.Fatalf("tip height percent should be 1, got %f", got)
	}
}

func TestTileOffsetWrapsTowardCamera(t *testing.T) {
	f, _ := Generate(smallConfig(), 1)
	center := math32.Vec3(-15, 0, 5)
	off := f.TileOffset(center, math32.Vec3(100, 0, -35))
	if off.X != 120 || off.Z != -40 {
		t.Fatalf("unexpected tile offset %v", off)
	}
	wrapped := center.Add(off)
	if math32.Abs(wrapped.X-100) > 20 || math32.Abs(wrapped.Z+35) > 20 {
		t.Fatalf("wrapped center %v is not within half an extent of the camera", wrapped)
	}
	if f.TileOffset(center, center) != (math32.Vector3{}) {
		t.Fatal("a chunk under the camera needs no offset")
	}
}

func TestChunkAtRepeats(t *testing.T) {
	f, _ := Generate(smallConfig(), 1)
	a := f.ChunkAt(math32.Vec3(-19, 0, 19))
	b := f.ChunkAt(math32.Vec3(-19+40*3, 0, 19-40))
	if a != b || a.I != 0 || a.J != 3 {
		t.Fatalf("expected chunk (0,3) for both, got (%d,%d) and (%d,%d)", a.I, a.J, b.I, b.J)
	}
}
