package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/lattice/internal/ir"
)

// RunWithGolden executes a scenario and compares the dispatch traces of
// all cases against testdata/golden/{scenario.Name}.golden.
//
// The snapshot deliberately excludes the schema hash: golden files are
// reviewed by humans, and hashes churn on every structural edit without
// telling the reviewer anything the steps don't.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	snapshot, err := snapshotResult(scenario.Name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return nil
}

// snapshotResult serializes every case's trace as canonical JSON.
func snapshotResult(name string, result *Result) ([]byte, error) {
	cases := make(ir.Array, len(result.Cases))
	for i, cr := range result.Cases {
		entry := ir.Object{"input": cr.Input}

		if cr.Err != nil {
			entry["error"] = ir.String(cr.Err.Error())
		} else {
			steps := make(ir.Array, len(cr.Trace.Steps))
			for j, step := range cr.Trace.Steps {
				steps[j] = ir.Object{
					"property": ir.String(step.Property),
					"clause":   ir.Int(int64(step.Clause)),
					"value":    step.Value,
				}
			}
			entry["steps"] = steps
		}
		cases[i] = entry
	}

	return ir.MarshalCanonical(ir.Object{
		"scenario": ir.String(name),
		"cases":    cases,
	})
}
