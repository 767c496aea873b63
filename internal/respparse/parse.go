// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package respparse turns free-form AI responses into structured data.
// Parsing runs an ordered list of strategies (strict JSON, cleaned JSON,
// heuristic field scanning) and returns the first usable result as a tagged
// Outcome. Parse never returns an error and never panics; when every
// strategy fails the Outcome is Empty.
package respparse

import (
	"encoding/json"
	"fmt"
)

// Kind tags an Outcome.
type Kind int

const (
	// Empty means no strategy produced usable data.
	Empty Kind = iota
	// PartialSuccess means only the heuristic tier recovered fields.
	PartialSuccess
	// Success means the response decoded as a JSON object.
	Success
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case PartialSuccess:
		return "partial"
	default:
		return "empty"
	}
}

// Outcome is the result of parsing one response.
type Outcome struct {
	Kind       Kind
	Tier       string
	Data       map[string]any
	Confidence float64
}

// EmptyOutcome returns the Outcome used when nothing could be recovered.
func EmptyOutcome() Outcome {
	return Outcome{Kind: Empty, Data: map[string]any{}}
}

// OK reports whether the outcome carries data.
func (o Outcome) OK() bool {
	return o.Kind != Empty
}

// Decode copies the outcome data into v, which must be a pointer to a
// struct whose json tags name the schema keys.
func (o Outcome) Decode(v any) error {
	data, err := json.Marshal(o.Data)
	if err != nil {
		return fmt.Errorf("marshaling outcome: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding outcome: %w", err)
	}
	return nil
}

// Schema describes the fields a response is expected to carry. Keys are
// string fields, ListKeys are string lists, ScoreKeys are integer scores
// on a 1-10 scale. Labels maps a key to the human-readable labels a model
// may use instead of the key in prose answers.
type Schema struct {
	Keys      []string
	ListKeys  []string
	ScoreKeys []string
	Labels    map[string][]string
}

// AllKeys returns every key in the schema in declaration order.
func (s Schema) AllKeys() []string {
	all := make([]string, 0, len(s.Keys)+len(s.ListKeys)+len(s.ScoreKeys))
	all = append(all, s.Keys...)
	all = append(all, s.ListKeys...)
	all = append(all, s.ScoreKeys...)
	return all
}

// Strategy is one parsing tier.
type Strategy struct {
	Name       string
	Kind       Kind
	Confidence float64
	Parse      func(raw string, schema Schema) (map[string]any, bool)
}

// Tier names.
const (
	TierStrict    = "strict"
	TierCleaned   = "cleaned"
	TierHeuristic = "heuristic"
)

// DefaultStrategies returns the standard tiers in order of decreasing trust.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: TierStrict, Kind: Success, Confidence: 1.0, Parse: parseStrict},
		{Name: TierCleaned, Kind: Success, Confidence: 0.85, Parse: parseCleaned},
		{Name: TierHeuristic, Kind: PartialSuccess, Confidence: 0.4, Parse: parseHeuristic},
	}
}

// Parser applies strategies in order.
type Parser struct {
	Strategies []Strategy
}

// New returns a Parser with the default tiers.
func New() *Parser {
	return &Parser{Strategies: DefaultStrategies()}
}

var defaultParser = New()

// Parse runs the default tiers over raw.
func Parse(raw string, schema Schema) Outcome {
	return defaultParser.Parse(raw, schema)
}

// Parse returns the first usable result from the configured strategies.
func (p *Parser) Parse(raw string, schema Schema) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = EmptyOutcome()
		}
	}()

	for _, s := range p.Strategies {
		data, ok := s.Parse(raw, schema)
		if !ok || len(data) == 0 || !hasSchemaKey(data, schema) {
			continue
		}
		coerce(data, schema)
		conf := s.Confidence
		if s.Kind == PartialSuccess {
			conf *= coverage(data, schema)
		}
		return Outcome{Kind: s.Kind, Tier: s.Name, Data: data, Confidence: conf}
	}
	return EmptyOutcome()
}

// hasSchemaKey reports whether data carries at least one expected key.
// A schema with no keys accepts any object.
func hasSchemaKey(data map[string]any, schema Schema) bool {
	keys := schema.AllKeys()
	if len(keys) == 0 {
		return true
	}
	for _, k := range keys {
		if _, ok := data[k]; ok {
			return true
		}
	}
	return false
}

// coverage is the fraction of schema keys present in data, floored so a
// single recovered field still carries some weight.
func coverage(data map[string]any, schema Schema) float64 {
	keys := schema.AllKeys()
	if len(keys) == 0 {
		return 1
	}
	found := 0
	for _, k := range keys {
		if _, ok := data[k]; ok {
			found++
		}
	}
	c := float64(found) / float64(len(keys))
	if c < 0.25 {
		c = 0.25
	}
	return c
}
