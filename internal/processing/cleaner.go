package processing

// CleaningRule is one deterministic rewrite step applied to an utterance
type CleaningRule interface {
	Name() string
	Description() string
	Apply(content string) string
}

// maxPasses bounds the fixed-point loop; each pass after the first can only
// shrink the text, so real input settles in two or three passes.
const maxPasses = 8

// Normalizer applies an ordered list of cleaning rules to utterance text
type Normalizer struct {
	rules []CleaningRule
}

// NewNormalizer creates a normalizer with the utterance cleaning rules in
// their required order: punctuation spacing, quotes, whitespace collapse,
// trim, ASCII stripping.
func NewNormalizer() *Normalizer {
	n := &Normalizer{}
	n.AddRule(&PunctuationSpacingRule{})
	n.AddRule(&QuoteNormalizationRule{})
	n.AddRule(&WhitespaceCollapseRule{})
	n.AddRule(&TrimRule{})
	n.AddRule(&ASCIIOnlyRule{})
	return n
}

// AddRule appends a rule; it runs after every rule added before it
func (n *Normalizer) AddRule(rule CleaningRule) {
	n.rules = append(n.rules, rule)
}

// Rules returns the rule names in application order
func (n *Normalizer) Rules() []string {
	names := make([]string, len(n.rules))
	for i, rule := range n.rules {
		names[i] = rule.Name()
	}
	return names
}

// Normalize runs the rule chain until the text stops changing. A single pass
// is not idempotent: stripping a non-ASCII character can expose a new " ,"
// or a double space, so the chain is repeated to a fixed point.
func (n *Normalizer) Normalize(content string) string {
	for pass := 0; pass < maxPasses; pass++ {
		next := n.apply(content)
		if next == content {
			return next
		}
		content = next
	}
	return content
}

func (n *Normalizer) apply(content string) string {
	for _, rule := range n.rules {
		content = rule.Apply(content)
	}
	return content
}

var defaultNormalizer = NewNormalizer()

// Normalize cleans a single utterance with the default rule chain.
// It is pure and total: empty input yields empty output.
func Normalize(content string) string {
	return defaultNormalizer.Normalize(content)
}
