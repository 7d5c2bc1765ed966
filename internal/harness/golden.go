package harness

import (
	"context"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/equiv"
	"github.com/roach88/typematrix/internal/ir"
	"github.com/roach88/typematrix/internal/testutil"
)

// snapshot is the golden form of a run: everything except the run id and
// the fingerprint.
func snapshot(result *Result) ir.Object {
	return ir.Object{
		"plan":    ir.String(result.Plan),
		"target":  ir.String(result.Target),
		"results": equiv.CanonicalSequence(result.Results),
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// RunWithGolden runs plan on amd64 with a fixed run id and compares its
// transcript against testdata/golden/{plan.Name}_transcript.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, plan *Plan) (*Result, error) {
	t.Helper()

	target, err := catalog.LookupTarget("amd64")
	if err != nil {
		return nil, err
	}
	runner := NewRunner(Config{
		Target: &target,
		RunIDs: testutil.NewFixedRunID(""),
	})
	result, err := runner.Run(context.Background(), plan)
	if err != nil {
		return nil, err
	}

	newGoldie(t).Assert(t, plan.Name+"_transcript", []byte(strings.Join(result.Transcript, "\n")+"\n"))
	return result, nil
}

// AssertGolden compares a result's canonical snapshot against
// testdata/golden/{name}.golden.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(snapshot(result))
	if err != nil {
		return err
	}
	newGoldie(t).Assert(t, name, data)
	return nil
}
