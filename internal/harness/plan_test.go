package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/equiv"
)

func TestBuiltinPlans(t *testing.T) {
	assert.Equal(t, []string{"arrays", "arithmetic"}, BuiltinPlanNames())

	arrays := mustBuiltin(t, "arrays")
	assert.Equal(t, []string{"integers", "floats", "booleans", "pointers", "aggregates", "enums", "heap"}, arrays.Phases)

	arith := mustBuiltin(t, "arithmetic")
	assert.Equal(t, []string{"switch", "float_ops"}, arith.Phases)

	_, err := BuiltinPlan("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arrays, arithmetic")
}

func TestParsePlan_Valid(t *testing.T) {
	p, err := ParsePlan([]byte(`
name: ints
version: 1.4.2
phases: [integers]
`))
	require.NoError(t, err)
	assert.Equal(t, "ints", p.Name)
	assert.Nil(t, p.Tolerances)
}

func TestParsePlan_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: x\nversion: 1.0.0\nphases: [integers]\nphase: [floats]\n", "field phase not found"},
		{"missing version", "name: x\nphases: [integers]\n", "version is required"},
		{"bad semver", "name: x\nversion: one\nphases: [integers]\n", "version"},
		{"major 2", "name: x\nversion: 2.0.0\nphases: [integers]\n", "does not satisfy ^1"},
		{"unknown phase", "name: x\nversion: 1.0.0\nphases: [integers, vectors]\n", "schema"},
		{"no phases", "name: x\nversion: 1.0.0\nphases: []\n", "schema"},
		{"bad name", "name: Bad Name\nversion: 1.0.0\nphases: [integers]\n", "schema"},
		{"non-positive tolerance", "name: x\nversion: 1.0.0\nphases: [floats]\ntolerances:\n  float32: 0\n", "schema"},
		{"unknown tolerance", "name: x\nversion: 1.0.0\nphases: [floats]\ntolerances:\n  float16: 0.1\n", "field float16 not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadPlan(t *testing.T) {
	p, err := LoadPlan(filepath.Join("testdata", "plans", "custom.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)

	tol := p.EffectiveTolerances(equiv.DefaultTolerances())
	assert.Equal(t, 0.001, tol.Float32)
	assert.Equal(t, equiv.DefaultTolerances().Float64, tol.Float64, "unset fields keep the default")

	_, err = LoadPlan(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadPlan_FromDisk(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: disk\nversion: 1.0.0\nphases: [heap]\n"), 0644))

	p, err := LoadPlan(file)
	require.NoError(t, err)
	assert.Equal(t, []catalog.Category{catalog.OwnedAggregatePointer}, p.Categories())
}

func TestPlanCategories_Deduplicated(t *testing.T) {
	p := &Plan{Phases: []string{"integers", "switch", "float_ops", "floats"}}
	cats := p.Categories()

	seen := map[catalog.Category]int{}
	for _, c := range cats {
		seen[c]++
	}
	assert.Equal(t, 1, seen[catalog.IntCategory], "switch reuses int")
	assert.Equal(t, 1, seen[catalog.Float64], "float_ops reuses float64")
	assert.Equal(t, catalog.IntCategory, cats[0])
}

func TestPlanSchema_ListsEveryPhase(t *testing.T) {
	schema := PlanSchema()
	for _, name := range PhaseNames() {
		assert.Contains(t, schema, `"`+name+`"`)
	}
}

func TestPlanError(t *testing.T) {
	assert.Equal(t, "plan x: version: bad", (&PlanError{Plan: "x", Field: "version", Message: "bad"}).Error())
	assert.Equal(t, "plan <unnamed>: bad", (&PlanError{Message: "bad"}).Error())
}
