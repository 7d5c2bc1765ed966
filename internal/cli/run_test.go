package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typematrix/internal/testutil"
)

type runResponse struct {
	Status string     `json:"status"`
	RunID  string     `json:"run_id"`
	Data   PlanReport `json:"data"`
}

func decodeRunResponses(t *testing.T, out string) []runResponse {
	t.Helper()
	var resps []runResponse
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var resp runResponse
		require.NoError(t, json.Unmarshal([]byte(line), &resp), line)
		resps = append(resps, resp)
	}
	return resps
}

func TestRunBuiltinPlansText(t *testing.T) {
	out, _, err := execute(t, "run", "--target", "amd64")
	require.NoError(t, err)

	assert.Contains(t, out, "== arrays on amd64 ==")
	assert.Contains(t, out, "== arithmetic on amd64 ==")
	assert.Contains(t, out, "PHASE")
	assert.Contains(t, out, "PASS arrays:")
	assert.Contains(t, out, "PASS arithmetic:")
	assert.NotContains(t, out, "✗", "no failures on a supported target")
	assert.NotContains(t, out, "int array:", "transcript is opt-in")
}

func TestRunVerboseShowsPasses(t *testing.T) {
	out, stderr, err := execute(t, "run", "arithmetic", "--target", "amd64", "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ int[0] switch:")
	assert.Contains(t, stderr, "run started")
	assert.Contains(t, stderr, "level=DEBUG")
}

func TestRunTranscript(t *testing.T) {
	out, _, err := execute(t, "run", "arrays", "--target", "amd64", "--transcript")
	require.NoError(t, err)

	assert.Contains(t, out, "-- Integer arrays --")
	assert.Contains(t, out, "int array: [-100, 0, 100]")
	assert.Contains(t, out, "Color array:")
}

func TestRunJSON(t *testing.T) {
	opts := &RootOptions{RunIDs: testutil.NewFixedRunID("")}
	out, _, err := executeWith(t, opts, "run", "arrays", "--target", "arm64", "--format", "json")
	require.NoError(t, err)

	resps := decodeRunResponses(t, out)
	require.Len(t, resps, 1)
	resp := resps[0]
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, testutil.DefaultRunID, resp.RunID)
	assert.Equal(t, "arrays", resp.Data.Plan)
	assert.Equal(t, "arm64", resp.Data.Target)
	assert.Zero(t, resp.Data.Failed)
	assert.Positive(t, resp.Data.Passed)
	assert.Len(t, resp.Data.Fingerprint, 64)
	assert.Empty(t, resp.Data.Failures)
	assert.Nil(t, resp.Data.Transcript)

	require.NotEmpty(t, resp.Data.Summary)
	first := resp.Data.Summary[0]
	assert.Equal(t, "integers", first.Phase)
	assert.Equal(t, "int", first.Category)

	total := 0
	for _, s := range resp.Data.Summary {
		total += s.Passed + s.Failed
	}
	assert.Equal(t, resp.Data.Passed+resp.Data.Failed, total, "ledger summary covers every check")
}

func TestRunJSONOneEnvelopePerPlan(t *testing.T) {
	out, _, err := execute(t, "run", "--target", "amd64", "--format", "json")
	require.NoError(t, err)

	resps := decodeRunResponses(t, out)
	require.Len(t, resps, 2)
	assert.Equal(t, "arrays", resps[0].Data.Plan)
	assert.Equal(t, "arithmetic", resps[1].Data.Plan)
	assert.NotEqual(t, resps[0].RunID, resps[1].RunID)
	assert.True(t, strings.HasPrefix(resps[0].RunID, "run-"))
}

func TestRunFingerprintIndependentOfRunID(t *testing.T) {
	out1, _, err := execute(t, "run", "arithmetic", "--target", "amd64", "--format", "json")
	require.NoError(t, err)
	out2, _, err := execute(t, "run", "arithmetic", "--target", "amd64", "--format", "json")
	require.NoError(t, err)

	a := decodeRunResponses(t, out1)[0]
	b := decodeRunResponses(t, out2)[0]
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Data.Fingerprint, b.Data.Fingerprint)
}

func TestRunPlanFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "floats.yaml", `name: floats-only
version: 1.1.0
phases: [floats]
tolerances:
  float32: 0.001
`)
	out, _, err := execute(t, "run", "--plan-file", path, "--target", "386")
	require.NoError(t, err)

	assert.Contains(t, out, "== floats-only on 386 ==")
	assert.Contains(t, out, "PASS floats-only:")
	assert.NotContains(t, out, "== arrays")
}

func TestRunStatusLineCountsChecks(t *testing.T) {
	out, _, err := execute(t, "run", "arithmetic", "--target", "amd64")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	last := lines[len(lines)-1]
	assert.Regexp(t, `^PASS arithmetic: \d+ passed, 0 failed \(run-[0-9a-f-]+, fingerprint [0-9a-f]{12}\)$`, last)
}

func TestRunCommandErrors(t *testing.T) {
	dir := t.TempDir()
	badPhase := writeFile(t, dir, "bad.yaml", "name: bad\nversion: 1.0.0\nphases: [bogus]\n")
	badVersion := writeFile(t, dir, "old.yaml", "name: old\nversion: 2.0.0\nphases: [floats]\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown plan", []string{"run", "nope"}, "unknown built-in plan"},
		{"missing plan file", []string{"run", "--plan-file", dir + "/missing.yaml"}, "failed to load plan file"},
		{"unknown phase", []string{"run", "--plan-file", badPhase}, "plan bad"},
		{"unsupported version", []string{"run", "--plan-file", badVersion}, "does not satisfy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}
