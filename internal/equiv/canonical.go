package equiv

import "github.com/roach88/typematrix/internal/ir"

// Canonical returns r as a canonical tree for fingerprinting. Empty Code
// and Detail are omitted, matching the JSON encoding.
func (r CheckResult) Canonical() ir.Object {
	obj := ir.Object{
		"phase":    ir.String(r.Phase),
		"category": ir.String(r.Category),
		"op":       ir.String(string(r.Op)),
		"index":    ir.Int(r.Index),
		"expected": ir.String(r.Expected),
		"actual":   ir.String(r.Actual),
		"rule":     ir.String(r.Rule),
		"passed":   ir.Bool(r.Passed),
	}
	if r.Code != "" {
		obj["code"] = ir.String(string(r.Code))
	}
	if r.Detail != "" {
		obj["detail"] = ir.String(r.Detail)
	}
	return obj
}

// CanonicalSequence converts an ordered result list into one array node.
func CanonicalSequence(results []CheckResult) ir.Array {
	arr := make(ir.Array, len(results))
	for i, r := range results {
		arr[i] = r.Canonical()
	}
	return arr
}
