package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vigil-sec/vigil/internal/model"
)

// Rule is a single matching rule before compilation.
// Expr is matched case-insensitively against normalized input.
type Rule struct {
	ID       string  `yaml:"id"`
	Expr     string  `yaml:"expr"`
	Language string  `yaml:"language,omitempty"`
	Weight   float64 `yaml:"weight,omitempty"` // 0 means inherit the set weight
}

// Set is a named, versioned collection of rules sharing an origin and
// a default weight.
type Set struct {
	Name    string       `yaml:"name"`
	Version string       `yaml:"version,omitempty"`
	Origin  model.Origin `yaml:"origin"`
	Weight  float64      `yaml:"weight"`
	Rules   []Rule       `yaml:"rules"`
}

// compiledRule pairs a rule with its compiled expression
type compiledRule struct {
	id     string
	set    string
	origin model.Origin
	weight float64
	re     *regexp.Regexp
}

// Registry is an immutable table of compiled pattern sets.
// Matching is read-only and safe for concurrent use.
type Registry struct {
	sets  []string
	rules map[string][]compiledRule // set name -> compiled rules
}

// Builder accumulates pattern sets before compiling them into a Registry
type Builder struct {
	sets []Set
}

// NewBuilder starts an empty registry builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a pattern set. Set names must be unique.
func (b *Builder) Add(set Set) *Builder {
	b.sets = append(b.sets, set)
	return b
}

// Build compiles every rule and freezes the registry
func (b *Builder) Build() (*Registry, error) {
	reg := &Registry{
		rules: make(map[string][]compiledRule),
	}

	seen := make(map[string]bool)
	for _, set := range b.sets {
		if set.Name == "" {
			return nil, fmt.Errorf("pattern set without a name")
		}
		if seen[set.Name] {
			return nil, fmt.Errorf("duplicate pattern set %q", set.Name)
		}
		seen[set.Name] = true

		if set.Weight <= 0 || set.Weight > 1 {
			return nil, fmt.Errorf("pattern set %q: weight %.2f outside (0,1]", set.Name, set.Weight)
		}

		compiled := make([]compiledRule, 0, len(set.Rules))
		for _, rule := range set.Rules {
			if rule.Expr == "" {
				return nil, fmt.Errorf("pattern set %q: rule %q has no expression", set.Name, rule.ID)
			}

			re, err := regexp.Compile("(?i)" + rule.Expr)
			if err != nil {
				return nil, fmt.Errorf("pattern set %q: compile rule %q: %w", set.Name, rule.ID, err)
			}

			weight := rule.Weight
			if weight == 0 {
				weight = set.Weight
			}
			if weight < 0 || weight > 1 {
				return nil, fmt.Errorf("pattern set %q: rule %q: weight %.2f outside [0,1]", set.Name, rule.ID, weight)
			}

			compiled = append(compiled, compiledRule{
				id:     set.Name + ":" + rule.ID,
				set:    set.Name,
				origin: set.Origin,
				weight: weight,
				re:     re,
			})
		}

		reg.sets = append(reg.sets, set.Name)
		reg.rules[set.Name] = compiled
	}

	return reg, nil
}

// NewRegistry builds a registry from the built-in pattern sets
func NewRegistry() (*Registry, error) {
	b := NewBuilder()
	for _, set := range BuiltinSets() {
		b.Add(set)
	}
	return b.Build()
}

// Sets returns the registered set names in registration order
func (r *Registry) Sets() []string {
	return append([]string(nil), r.sets...)
}

// Has reports whether the named set is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.rules[name]
	return ok
}

// Match runs every rule in the enabled sets against the text and
// returns all hits. Matching is substring/regex with case folding;
// the input is expected to already be normalized.
func (r *Registry) Match(text string, enabledSets []string) []model.PatternHit {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var hits []model.PatternHit
	for _, name := range enabledSets {
		for _, rule := range r.rules[name] {
			if rule.re.MatchString(text) {
				hits = append(hits, model.PatternHit{
					PatternID: rule.id,
					Set:       rule.set,
					Origin:    rule.origin,
					Weight:    rule.weight,
				})
			}
		}
	}

	return hits
}

// RuleCount returns the number of compiled rules in the named set
func (r *Registry) RuleCount(name string) int {
	return len(r.rules[name])
}
