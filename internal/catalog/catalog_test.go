package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typematrix/internal/defect"
)

func TestAll_EveryCategoryHasSamples(t *testing.T) {
	for _, c := range All() {
		vals, err := SamplesFor(c)
		require.NoError(t, err, c.String())

		want := 3
		if c == BoolCategory || c == Enum {
			want = 4
		}
		assert.Len(t, vals, want, c.String())
		assert.Equal(t, want, SampleCount(c))
	}
}

func TestNativeCategoriesAndValueTypes(t *testing.T) {
	tests := []struct {
		name  string
		cat   Category
		kind  Kind
		value Value
	}{
		{"int", IntCategory, KindSigned, Int(-100)},
		{"byte", ByteCategory, KindUnsigned, Byte('A')},
		{"bool", BoolCategory, KindBool, Bool(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCategory(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.cat, c)
			assert.Equal(t, tt.name, c.String())
			assert.Equal(t, tt.kind, c.Kind())

			vals := MustSamplesFor(c)
			assert.IsType(t, tt.value, vals[0], "samples of %s are %T values", c, tt.value)
		})
	}
}

func TestSamplesFor_ReturnsCopy(t *testing.T) {
	first := MustSamplesFor(Int8)
	first[0] = Int(99)

	second := MustSamplesFor(Int8)
	assert.Equal(t, Int(-50), second[0], "fixture table must not be mutated through a returned slice")
}

func TestSamplesFor_Undeclared(t *testing.T) {
	_, err := SamplesFor(Category(999))
	require.Error(t, err)
	assert.True(t, defect.IsConstructionDefect(err))
}

func TestSamplesFor_BoundaryFlavor(t *testing.T) {
	for _, c := range []Category{IntCategory, Int8, Int16, Int32, Int64} {
		vals := MustSamplesFor(c)
		assert.Less(t, int64(vals[0].(Int)), int64(0), c.String())
		assert.Equal(t, Int(0), vals[1], c.String())
		assert.Greater(t, int64(vals[2].(Int)), int64(0), c.String())
	}
	for _, c := range []Category{UInt, UInt8, UInt16, UInt32, UInt64} {
		vals := MustSamplesFor(c)
		assert.Less(t, uint64(vals[0].(Uint)), uint64(vals[1].(Uint)), c.String())
		assert.Less(t, uint64(vals[1].(Uint)), uint64(vals[2].(Uint)), c.String())
	}
	assert.Equal(t, []Value{Red, Green, Blue, Yellow}, MustSamplesFor(Enum))
	assert.Equal(t, []Value{Bool(true), Bool(false), Bool(true), Bool(false)}, MustSamplesFor(BoolCategory))
}

func TestValidate(t *testing.T) {
	for _, arch := range TargetNames() {
		tgt, err := LookupTarget(arch)
		require.NoError(t, err)
		assert.NoError(t, Validate(All(), tgt), arch)
	}

	err := Validate([]Category{Int8, Category(-1)}, HostTarget())
	require.Error(t, err)
	assert.True(t, defect.IsConstructionDefect(err))
}

func TestFits(t *testing.T) {
	tgt := Target{Arch: "test", WordSize: 4}
	assert.NoError(t, fits(Int8, Int(127), tgt))
	assert.NoError(t, fits(Int8, Int(-128), tgt))
	assert.Error(t, fits(Int8, Int(128), tgt))
	assert.Error(t, fits(UInt8, Uint(256), tgt))
	assert.NoError(t, fits(UInt64, Uint(^uint64(0)), tgt))
	assert.Error(t, fits(IntCategory, Int(1)<<40, tgt), "native int is 32 bits on a 4-byte target")
	assert.Error(t, fits(UInt8, Int(1), tgt), "signed sample in unsigned category")
}

func TestWidth(t *testing.T) {
	amd64, err := LookupTarget("amd64")
	require.NoError(t, err)
	i386, err := LookupTarget("386")
	require.NoError(t, err)

	assert.Equal(t, 8, Int8.Width(amd64))
	assert.Equal(t, 8, BoolCategory.Width(amd64))
	assert.Equal(t, 16, UInt16.Width(amd64))
	assert.Equal(t, 32, FloatNative.Width(amd64))
	assert.Equal(t, 64, Float64.Width(i386))
	assert.Equal(t, 64, IntCategory.Width(amd64))
	assert.Equal(t, 32, IntCategory.Width(i386))
	assert.Equal(t, 32, TypedPointer.Width(i386))
	assert.Equal(t, 192, Struct.Width(amd64))
	assert.Equal(t, 96, Struct.Width(i386))
}

func TestColorName_Total(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{0, "RED"},
		{1, "GREEN"},
		{2, "BLUE"},
		{3, "YELLOW"},
		{4, ColorUnknown},
		{-1, ColorUnknown},
		{1 << 20, ColorUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.Name(), "discriminant %d", int(tt.c))
	}

	// Raw value survives the name mapping.
	c := Color(7)
	_ = c.Name()
	assert.Equal(t, 7, int(c))
}

func TestParseCategory(t *testing.T) {
	for _, c := range All() {
		got, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseCategory("INT8")
	require.NoError(t, err)
	assert.Equal(t, Int8, got)

	_, err = ParseCategory("complex128")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Int(-100), "-100"},
		{Uint(3000000), "3000000"},
		{Byte('A'), "'A'"},
		{Float(1.123456), "1.123456"},
		{Bool(false), "false"},
		{Text("GBC"), `"GBC"`},
		{Yellow, "YELLOW (3)"},
		{Color(9), "UNKNOWN (9)"},
		{Point{X: -50, Y: 75, Name: "Point B"}, `(-50, 75) "Point B"`},
		{ref(PoolValues, 1), "&values[1] -> 84"},
		{nil, "<nil>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Render(tt.v))
	}
}

func TestRef_SameReferent(t *testing.T) {
	a := ref(PoolValues, 0)
	b := Ref{Pool: PoolValues, Slot: 0, Target: Int(1)}
	assert.True(t, a.SameReferent(b), "identity ignores the carried target")
	assert.False(t, a.SameReferent(ref(PoolStrings, 0)))
	assert.False(t, a.SameReferent(ref(PoolValues, 2)))
}

func TestReferents(t *testing.T) {
	vals, err := Referents(PoolValues)
	require.NoError(t, err)
	assert.Equal(t, []Value{Int(42), Int(84), Int(126)}, vals)

	_, err = Referents("heap")
	assert.Error(t, err)
}

func TestLookupTarget_Unknown(t *testing.T) {
	_, err := LookupTarget("sparc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported target")
}
