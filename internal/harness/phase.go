package harness

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/container"
	"github.com/roach88/typematrix/internal/defect"
	"github.com/roach88/typematrix/internal/equiv"
	"github.com/roach88/typematrix/internal/lifecycle"
	"github.com/roach88/typematrix/internal/report"
)

// Phase groups categories under one transcript heading.
type Phase struct {
	Name       string
	Heading    string
	Categories []catalog.Category

	check func(pr *phaseRun, c catalog.Category) error
}

// phases is the registry, in declaration order.
var phases = []Phase{
	{
		Name:    "integers",
		Heading: "-- Integer arrays --",
		Categories: []catalog.Category{
			catalog.IntCategory, catalog.Int8, catalog.Int16, catalog.Int32, catalog.Int64,
			catalog.UInt, catalog.UInt8, catalog.UInt16, catalog.UInt32, catalog.UInt64,
			catalog.ByteCategory,
		},
		check: checkArray,
	},
	{
		Name:       "floats",
		Heading:    "-- Float arrays --",
		Categories: []catalog.Category{catalog.FloatNative, catalog.Float32, catalog.Float64},
		check:      checkArray,
	},
	{
		Name:       "booleans",
		Heading:    "-- Bool arrays --",
		Categories: []catalog.Category{catalog.BoolCategory},
		check:      checkArray,
	},
	{
		Name:       "pointers",
		Heading:    "-- Pointer arrays --",
		Categories: []catalog.Category{catalog.TypedPointer, catalog.TextPointer, catalog.RawPointer},
		check:      checkArray,
	},
	{
		Name:       "aggregates",
		Heading:    "-- Struct arrays --",
		Categories: []catalog.Category{catalog.Struct},
		check:      checkArray,
	},
	{
		Name:       "enums",
		Heading:    "-- Enum arrays --",
		Categories: []catalog.Category{catalog.Enum},
		check:      checkEnum,
	},
	{
		Name:       "heap",
		Heading:    "-- Struct pointer arrays (dynamic) --",
		Categories: []catalog.Category{catalog.OwnedAggregatePointer},
		check:      checkHeap,
	},
	{
		Name:       "switch",
		Heading:    "--- Testing Integer Switch ---",
		Categories: []catalog.Category{catalog.IntCategory},
		check:      checkSwitch,
	},
	{
		Name:       "float_ops",
		Heading:    "--- Testing Float Operations ---",
		Categories: []catalog.Category{catalog.Float64},
		check:      checkFloatOps,
	},
}

// LookupPhase returns the registered phase with the given name.
func LookupPhase(name string) (Phase, bool) {
	for _, p := range phases {
		if p.Name == name {
			return p, true
		}
	}
	return Phase{}, false
}

// PhaseNames returns every registered phase name, in declaration order.
func PhaseNames() []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name
	}
	return names
}

// phaseRun is what a category check sees of the runner.
type phaseRun struct {
	phase   string
	target  catalog.Target
	checker *equiv.Checker
	logger  *slog.Logger
	emit    func(equiv.CheckResult)
	write   func(lines ...string)
}

// fail reports a check stopped by err. It returns err when the defect is
// fatal for the category, nil otherwise.
func (pr *phaseRun) fail(c catalog.Category, op equiv.Op, index int, expected string, err error) error {
	pr.emit(equiv.FailedText(c.String(), op, index, expected, err))
	if defect.CodeOf(err).Fatal() {
		return err
	}
	return nil
}

func (pr *phaseRun) builder(c catalog.Category) (*container.Builder, error) {
	b, err := container.NewBuilder(pr.target)
	if err != nil {
		return nil, pr.fail(c, equiv.OpLength, -1, strconv.Itoa(catalog.SampleCount(c)),
			&defect.Error{Code: defect.ConstructionDefect, Category: c.String(), Index: -1, Message: "referent pools", Cause: err})
	}
	return b, nil
}

// buildFailed reports a container that could not be built. No check on the
// category can run without it, so err is always returned and the category
// halts, whatever its code.
func (pr *phaseRun) buildFailed(c catalog.Category, err error) error {
	pr.fail(c, equiv.OpLength, -1, strconv.Itoa(catalog.SampleCount(c)), err)
	return err
}

// elementOp names the check applied to each element of a category.
func elementOp(c catalog.Category) equiv.Op {
	switch c {
	case catalog.TypedPointer, catalog.TextPointer:
		return equiv.OpDeref
	case catalog.RawPointer:
		return equiv.OpIdentity
	}
	return equiv.OpLoad
}

func checkArray(pr *phaseRun, c catalog.Category) error {
	b, err := pr.builder(c)
	if err != nil || b == nil {
		return err
	}
	ctr, err := b.Build(c, nil)
	if err != nil {
		return pr.buildFailed(c, err)
	}
	_, err = checkElements(pr, c, ctr)
	return err
}

// checkElements runs the length, per-element and format checks shared by
// every container. It returns the values read back.
func checkElements(pr *phaseRun, c catalog.Category, ctr container.Container) ([]catalog.Value, error) {
	samples, err := catalog.SamplesFor(c)
	if err != nil {
		return nil, pr.fail(c, equiv.OpLength, -1, "0", err)
	}
	pr.emit(equiv.CheckWith(equiv.Exact{}, c.String(), equiv.OpLength, -1,
		catalog.Int(len(samples)), catalog.Int(ctr.Len())))

	op := elementOp(c)
	loaded := make([]catalog.Value, 0, len(samples))
	for i, want := range samples {
		got, err := ctr.Load(i)
		if err != nil {
			if ferr := pr.fail(c, op, i, catalog.Render(want), err); ferr != nil {
				return loaded, ferr
			}
			continue
		}
		loaded = append(loaded, got)
		pr.emit(pr.checker.Check(c, op, i, want, got))
	}

	if len(loaded) == len(samples) {
		want := report.FormatLines(c, samples)
		got := report.FormatLines(c, loaded)
		pr.emit(equiv.CheckText(c.String(), equiv.OpFormat, -1, strings.Join(want, "\n"), strings.Join(got, "\n")))
		pr.write(got...)
	}
	return loaded, nil
}

var colorNames = []string{"RED", "GREEN", "BLUE", "YELLOW"}

func checkEnum(pr *phaseRun, c catalog.Category) error {
	b, err := pr.builder(c)
	if err != nil || b == nil {
		return err
	}
	ctr, err := b.Build(c, nil)
	if err != nil {
		return pr.buildFailed(c, err)
	}
	loaded, err := checkElements(pr, c, ctr)
	if err != nil {
		return err
	}
	for i, v := range loaded {
		if i >= len(colorNames) {
			break
		}
		name := catalog.Render(v)
		if col, ok := v.(catalog.Color); ok {
			name = col.Name()
		}
		pr.emit(equiv.CheckText(c.String(), equiv.OpName, i, colorNames[i], name))
	}

	// A discriminant outside the closed set keeps its raw value and is
	// named UNKNOWN.
	stray := catalog.Color(len(colorNames))
	want := fmt.Sprintf("%s (%d)", catalog.ColorUnknown, int(stray))
	if err := ctr.Store(0, stray); err != nil {
		return pr.fail(c, equiv.OpName, 0, want, err)
	}
	got, err := ctr.Load(0)
	if err != nil {
		return pr.fail(c, equiv.OpName, 0, want, err)
	}
	actual := catalog.Render(got)
	if col, ok := got.(catalog.Color); ok {
		actual = fmt.Sprintf("%s (%d)", col.Name(), int(col))
	}
	pr.emit(equiv.CheckText(c.String(), equiv.OpName, 0, want, actual))
	return nil
}

func checkHeap(pr *phaseRun, c catalog.Category) error {
	b, err := pr.builder(c)
	if err != nil || b == nil {
		return err
	}
	mgr := lifecycle.NewManager(pr.logger)
	err = mgr.Scope(func(s *lifecycle.Scope) error {
		ctr, err := b.Build(c, s)
		if err != nil {
			return pr.buildFailed(c, err)
		}
		if _, err := checkElements(pr, c, ctr); err != nil {
			return err
		}
		hc, ok := ctr.(container.HeapContainer)
		if !ok {
			return pr.fail(c, equiv.OpRelease, -1, "handles", defect.NewConstruction(c.String(), "container does not hold handles"))
		}
		return releaseAll(pr, c, hc, s)
	})
	if err != nil {
		return err
	}

	stats := mgr.Stats()
	pr.emit(equiv.CheckText(c.String(), equiv.OpRelease, -1,
		fmt.Sprintf("allocated=%d released=%d live=0", stats.Allocated, stats.Allocated),
		fmt.Sprintf("allocated=%d released=%d live=%d", stats.Allocated, stats.Released, stats.Live)))
	return nil
}

// releaseAll releases every handle once, then confirms that a second
// release and a read through the released handle are both rejected.
func releaseAll(pr *phaseRun, c catalog.Category, hc container.HeapContainer, s *lifecycle.Scope) error {
	violation := string(defect.LifecycleViolation)
	for i := 0; i < hc.Len(); i++ {
		h, err := hc.Handle(i)
		if err != nil {
			if ferr := pr.fail(c, equiv.OpRelease, i, "released", err); ferr != nil {
				return ferr
			}
			continue
		}
		if err := s.Release(h); err != nil {
			return pr.fail(c, equiv.OpRelease, i, "released", err)
		}
		pr.emit(equiv.CheckText(c.String(), equiv.OpRelease, i, "released", "released"))

		err = s.Release(h)
		pr.emit(equiv.CheckText(c.String(), equiv.OpRelease, i, violation, codeString(err)))

		_, err = hc.Load(i)
		pr.emit(equiv.CheckText(c.String(), equiv.OpLoad, i, violation, codeString(err)))
	}
	return nil
}

func codeString(err error) string {
	if err == nil {
		return "ok"
	}
	if code := defect.CodeOf(err); code != "" {
		return string(code)
	}
	return err.Error()
}
