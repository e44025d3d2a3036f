package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/camuig/upbit-trader/internal/trading"
)

// decisionSchema is the only shape the engine accepts from the model.
// Rejecting anything else at this boundary keeps malformed output from
// ever reaching the executor.
const decisionSchema = `{
	"type": "object",
	"properties": {
		"decision": {"type": "string", "enum": ["buy", "sell", "hold"]},
		"percentage": {"type": "integer", "minimum": 0, "maximum": 100},
		"reason": {"type": "string"}
	},
	"required": ["decision", "percentage", "reason"],
	"additionalProperties": false
}`

var compiledDecisionSchema = mustCompileSchema(decisionSchema)

func mustCompileSchema(raw string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("decision.json", strings.NewReader(raw)); err != nil {
		panic(err)
	}
	return compiler.MustCompile("decision.json")
}

// ParseDecision validates raw model output against the decision schema
// and business constraints. No coercion: violations fail the cycle.
func ParseDecision(raw string) (Decision, error) {
	var decision Decision

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return decision, fmt.Errorf("%w: response is not valid JSON: %v", trading.ErrValidation, err)
	}

	if err := compiledDecisionSchema.Validate(doc); err != nil {
		return decision, fmt.Errorf("%w: response violates decision schema: %v", trading.ErrValidation, err)
	}

	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		return decision, fmt.Errorf("%w: decode decision: %v", trading.ErrValidation, err)
	}

	if decision.Decision == "hold" && decision.Percentage != 0 {
		return decision, fmt.Errorf("%w: hold decision must carry percentage 0, got %d",
			trading.ErrValidation, decision.Percentage)
	}

	return decision, nil
}
