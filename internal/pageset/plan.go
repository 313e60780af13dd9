// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pageset

import (
	"bytes"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doctool/pkg/types"
)

// ReadPlan loads an edit plan from a YAML file. Unknown keys are rejected so
// a misspelled field is not silently ignored.
func ReadPlan(path string) (types.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Plan{}, fmt.Errorf("reading plan %s: %w", path, err)
	}
	var plan types.Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		return types.Plan{}, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	return plan, nil
}

// WritePlan saves plan as YAML.
func WritePlan(path string, plan types.Plan) error {
	data, err := yaml.Marshal(&plan)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan %s: %w", path, err)
	}
	return nil
}

// PlanOps parses every step of plan. Each entry may itself hold a
// comma-separated script.
func PlanOps(plan types.Plan) ([]Op, error) {
	var ops []Op
	for i, s := range plan.Ops {
		parsed, err := ParseOps(s)
		if err != nil {
			return nil, fmt.Errorf("plan step %d: %w", i+1, err)
		}
		ops = append(ops, parsed...)
	}
	return ops, nil
}

// RecordOps returns the steps of ops in plan form.
func RecordOps(ops []Op) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}
