package harness

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/equiv"
)

//go:embed plans/*.yaml
var builtinFS embed.FS

// SupportedVersions is the constraint a plan's version must satisfy.
const SupportedVersions = "^1"

// Plan is an ordered list of phases.
type Plan struct {
	// Name identifies the plan in reports and the ledger.
	Name string `yaml:"name"`

	// Version is the plan format version (semver).
	Version string `yaml:"version"`

	Description string `yaml:"description,omitempty"`

	// Phases run in order. Names must be registered phases.
	Phases []string `yaml:"phases"`

	// Tolerances overrides the float epsilon bands. Unset fields keep the
	// runner's defaults.
	Tolerances *PlanTolerances `yaml:"tolerances,omitempty"`
}

// PlanTolerances is the optional per-plan override of equiv.Tolerances.
type PlanTolerances struct {
	Float32 *float64 `yaml:"float32,omitempty"`
	Float64 *float64 `yaml:"float64,omitempty"`
}

// PlanError reports an invalid plan.
type PlanError struct {
	Plan    string
	Field   string
	Message string
}

func (e *PlanError) Error() string {
	name := e.Plan
	if name == "" {
		name = "<unnamed>"
	}
	if e.Field != "" {
		return fmt.Sprintf("plan %s: %s: %s", name, e.Field, e.Message)
	}
	return fmt.Sprintf("plan %s: %s", name, e.Message)
}

// ParsePlan decodes and validates a plan document. Unknown fields are errors.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse plan YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadPlan reads and parses a plan file.
func LoadPlan(file string) (*Plan, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return ParsePlan(data)
}

// BuiltinPlan returns one of the embedded plans.
func BuiltinPlan(name string) (*Plan, error) {
	data, err := builtinFS.ReadFile(path.Join("plans", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown built-in plan %q (available: %s)", name, strings.Join(BuiltinPlanNames(), ", "))
	}
	return ParsePlan(data)
}

// BuiltinPlanNames lists the embedded plans. "arrays" always sorts first.
func BuiltinPlanNames() []string {
	entries, err := builtinFS.ReadDir("plans")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == "arrays" || names[j] == "arrays" {
			return names[i] == "arrays"
		}
		return names[i] < names[j]
	})
	return names
}

// Validate checks the version constraint and the plan schema.
func (p *Plan) Validate() error {
	if p.Version == "" {
		return &PlanError{Plan: p.Name, Field: "version", Message: "version is required"}
	}
	v, err := semver.NewVersion(p.Version)
	if err != nil {
		return &PlanError{Plan: p.Name, Field: "version", Message: err.Error()}
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("version constraint: %w", err)
	}
	if !c.Check(v) {
		return &PlanError{Plan: p.Name, Field: "version", Message: fmt.Sprintf("%s does not satisfy %s", p.Version, SupportedVersions)}
	}
	return validateSchema(p)
}

// Categories returns every category the plan touches, in run order,
// without duplicates.
func (p *Plan) Categories() []catalog.Category {
	seen := make(map[catalog.Category]bool)
	var out []catalog.Category
	for _, name := range p.Phases {
		ph, ok := LookupPhase(name)
		if !ok {
			continue
		}
		for _, c := range ph.Categories {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// EffectiveTolerances applies the plan's overrides to base.
func (p *Plan) EffectiveTolerances(base equiv.Tolerances) equiv.Tolerances {
	if p.Tolerances == nil {
		return base
	}
	if p.Tolerances.Float32 != nil {
		base.Float32 = *p.Tolerances.Float32
	}
	if p.Tolerances.Float64 != nil {
		base.Float64 = *p.Tolerances.Float64
	}
	return base
}

// document is the plan as the schema sees it. Absent optional fields are
// left out rather than encoded as null.
func (p *Plan) document() map[string]any {
	doc := map[string]any{
		"name":    p.Name,
		"version": p.Version,
	}
	if p.Description != "" {
		doc["description"] = p.Description
	}
	phaseList := make([]any, len(p.Phases))
	for i, name := range p.Phases {
		phaseList[i] = name
	}
	doc["phases"] = phaseList
	if p.Tolerances != nil {
		tol := map[string]any{}
		if p.Tolerances.Float32 != nil {
			tol["float32"] = *p.Tolerances.Float32
		}
		if p.Tolerances.Float64 != nil {
			tol["float64"] = *p.Tolerances.Float64
		}
		doc["tolerances"] = tol
	}
	return doc
}
