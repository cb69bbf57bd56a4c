// Package harness runs YAML conformance scenarios against property
// definitions.
//
// A scenario names the CUE definition files to compile and a list of
// cases. Each case supplies one input and expects either a full result
// record, the evaluation order, or a specific evaluation error. The
// harness compiles the definitions once, evaluates every case, and
// reports the first expectation that does not hold.
//
// Golden trace snapshots (RunWithGolden) serialize every case's
// dispatch trace as canonical JSON and compare against
// testdata/golden/{name}.golden via goldie. Regenerate with:
//
//	go test ./internal/harness -update
package harness
