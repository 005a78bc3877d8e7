package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/dtmerge/internal/blob"
	"github.com/danieljhkim/dtmerge/internal/identity"
)

type tuple = identity.Tuple

func base(path string, id identity.Identity) *blob.Record {
	return &blob.Record{Path: path, Kind: blob.Tree, Identity: id}
}

func techpack(path string, id identity.Identity) *blob.Record {
	return &blob.Record{Path: path, Kind: blob.Overlay, Identity: id}
}

func techpackNames(p *Partition) []string {
	names := make([]string, len(p.Techpacks))
	for i, tp := range p.Techpacks {
		names[i] = tp.Name()
	}
	return names
}

func TestNewPartitionSet(t *testing.T) {
	b := base("x.dtb", identity.New(identity.Of(tuple{1, 2}), identity.Any(), identity.Any()))
	set := NewPartitionSet(b)

	parts := set.Partitions()
	require.Len(t, parts, 1)
	assert.Same(t, b, set.Base())
	assert.True(t, parts[0].Identity.Equal(b.Identity))
	assert.Empty(t, parts[0].Techpacks)
	assert.False(t, parts[0].Narrowed())
}

// Two bases on different platforms, one techpack listing both platforms:
// each base keeps one partition and receives the techpack.
func TestTryAdd_TechpackSpanningBases(t *testing.T) {
	x := NewPartitionSet(base("x.dtb", identity.New(identity.Of(tuple{1, 2}), identity.Any(), identity.Any())))
	y := NewPartitionSet(base("y.dtb", identity.New(identity.Of(tuple{3, 4}), identity.Any(), identity.Any())))
	tp := techpack("tp.dtbo", identity.New(identity.Of(tuple{1, 2}, tuple{3, 4}), identity.Any(), identity.Any()))

	assert.True(t, x.TryAdd(tp))
	assert.True(t, y.TryAdd(tp))

	for _, set := range []*PartitionSet{x, y} {
		parts := set.Partitions()
		require.Len(t, parts, 1, "base %s must not split", set.Base().Path)
		assert.Equal(t, []string{"tp"}, techpackNames(parts[0]))
		assert.False(t, parts[0].Narrowed())
	}
}

// A techpack covering one of two boards splits the base in two.
func TestTryAdd_SplitOnPartialOverlap(t *testing.T) {
	set := NewPartitionSet(base("x.dtb", identity.New(identity.Any(), identity.Of(tuple{10, 0}, tuple{20, 0}), identity.Any())))
	tp := techpack("tp.dtbo", identity.New(identity.Any(), identity.Of(tuple{10, 0}), identity.Any()))

	require.True(t, set.TryAdd(tp))

	parts := set.Partitions()
	require.Len(t, parts, 2)

	assert.True(t, parts[0].Identity.Board().Equal(identity.Of(tuple{10, 0})))
	assert.Equal(t, []string{"tp"}, techpackNames(parts[0]))
	assert.True(t, parts[0].Narrowed())

	assert.True(t, parts[1].Identity.Board().Equal(identity.Of(tuple{20, 0})))
	assert.Empty(t, parts[1].Techpacks)
}

func TestTryAdd_NoIntersection(t *testing.T) {
	b := base("x.dtb", identity.New(identity.Of(tuple{1, 2}), identity.Of(tuple{10, 0}), identity.Any()))
	set := NewPartitionSet(b)
	tp := techpack("tp.dtbo", identity.New(identity.Of(tuple{5, 6}), identity.Any(), identity.Any()))

	assert.False(t, set.TryAdd(tp))

	parts := set.Partitions()
	require.Len(t, parts, 1)
	assert.True(t, parts[0].Identity.Equal(b.Identity))
	assert.Empty(t, parts[0].Techpacks)
}

// A techpack that leaves open an axis the base constrains does not contain
// the base, so nothing is applied and the base stays whole.
func TestTryAdd_TechpackUnconstrainedAxis(t *testing.T) {
	b := base("x.dtb", identity.New(identity.Of(tuple{1, 2}), identity.Of(tuple{10, 0}, tuple{20, 0}), identity.Any()))
	set := NewPartitionSet(b)
	tp := techpack("tp.dtbo", identity.New(identity.Of(tuple{1, 2}), identity.Any(), identity.Any()))

	assert.False(t, set.TryAdd(tp))
	parts := set.Partitions()
	require.Len(t, parts, 1)
	assert.True(t, parts[0].Identity.Equal(b.Identity))
	assert.Empty(t, parts[0].Techpacks)
}

// A techpack constraining an axis the base leaves open contains the base on
// that axis; the open axis is not split.
func TestTryAdd_BaseUnconstrainedAxis(t *testing.T) {
	set := NewPartitionSet(base("x.dtb", identity.New(identity.Any(), identity.Of(tuple{10, 0}), identity.Any())))
	tp := techpack("tp.dtbo", identity.New(identity.Of(tuple{1, 2}), identity.Of(tuple{10, 0}), identity.Any()))

	assert.True(t, set.TryAdd(tp))
	parts := set.Partitions()
	require.Len(t, parts, 1)
	assert.Equal(t, []string{"tp"}, techpackNames(parts[0]))
}

func TestTryAdd_SameTechpackTwice(t *testing.T) {
	set := NewPartitionSet(base("x.dtb", identity.New(identity.Any(), identity.Of(tuple{10, 0}, tuple{20, 0}), identity.Any())))
	tp := techpack("tp.dtbo", identity.New(identity.Any(), identity.Of(tuple{10, 0}), identity.Any()))

	require.True(t, set.TryAdd(tp))
	require.Len(t, set.Partitions(), 2)

	assert.True(t, set.TryAdd(tp), "second offer still matches")
	parts := set.Partitions()
	require.Len(t, parts, 2, "second offer must not split again")
	assert.Equal(t, []string{"tp"}, techpackNames(parts[0]), "techpack is not appended twice")
	assert.Empty(t, parts[1].Techpacks)
}

// Overlapping techpacks produce one partition per distinct combination and
// never share techpack lists between pieces.
func TestTryAdd_OverlappingTechpacks(t *testing.T) {
	b := base("x.dtb", identity.New(identity.Any(), identity.Of(tuple{10, 0}, tuple{20, 0}, tuple{30, 0}), identity.Any()))
	set := NewPartitionSet(b)

	display := techpack("display.dtbo", identity.New(identity.Any(), identity.Of(tuple{10, 0}, tuple{20, 0}), identity.Any()))
	camera := techpack("camera.dtbo", identity.New(identity.Any(), identity.Of(tuple{20, 0}, tuple{30, 0}), identity.Any()))
	audio := techpack("audio.dtbo", identity.New(identity.Any(), identity.Of(tuple{10, 0}, tuple{20, 0}, tuple{30, 0}), identity.Any()))

	require.True(t, set.TryAdd(display))
	require.True(t, set.TryAdd(camera))
	require.True(t, set.TryAdd(audio))

	got := map[string][]string{}
	for _, p := range set.Partitions() {
		got[p.Identity.Board().String()] = techpackNames(p)
	}
	assert.Equal(t, map[string][]string{
		"{(10, 0)}": {"display", "audio"},
		"{(20, 0)}": {"display", "camera", "audio"},
		"{(30, 0)}": {"camera", "audio"},
	}, got)
}

// The partitions of a set always reconstruct the base, whatever is offered.
func TestTryAdd_CoverageInvariant(t *testing.T) {
	plats := []tuple{{1, 2}, {3, 4}}
	boards := []tuple{{10, 0}, {20, 0}}
	pmics := []tuple{{1, 0, 0, 0}, {2, 0, 0, 0}}

	b := base("x.dtb", identity.New(identity.Of(plats...), identity.Of(boards...), identity.Of(pmics...)))
	set := NewPartitionSet(b)

	set.TryAdd(techpack("a.dtbo", identity.New(identity.Of(plats[0]), identity.Of(boards[0]), identity.Of(pmics[0]))))
	set.TryAdd(techpack("b.dtbo", identity.New(identity.Any(), identity.Of(boards[1]), identity.Any())))
	set.TryAdd(techpack("c.dtbo", identity.New(identity.Of(plats[1]), identity.Any(), identity.Of(pmics[1]))))

	type device struct{ p, b, m int }
	covered := map[device]int{}
	for _, part := range set.Partitions() {
		for pi, p := range plats {
			for bi, bd := range boards {
				for mi, m := range pmics {
					single := identity.New(identity.Of(p), identity.Of(bd), identity.Of(m))
					if part.Identity.Contains(single) {
						covered[device{pi, bi, mi}]++
					}
				}
			}
		}
	}

	assert.Len(t, covered, len(plats)*len(boards)*len(pmics))
	for d, n := range covered {
		assert.Equal(t, 1, n, "device %+v covered %d times", d, n)
	}
}

func TestPartition_TechpackPaths(t *testing.T) {
	p := &Partition{
		Base:      base("x.dtb", identity.Identity{}),
		Techpacks: []*blob.Record{techpack("/tp/a.dtbo", identity.Identity{}), techpack("/tp/b.dtbo", identity.Identity{})},
	}
	assert.Equal(t, []string{"/tp/a.dtbo", "/tp/b.dtbo"}, p.TechpackPaths())
}
