package config

// Operator is a boolean operator attribute value.
type Operator int

const (
	// OperatorOr joins adjacent clauses disjunctively (the usual default for
	// full-text queries).
	OperatorOr Operator = iota
	// OperatorAnd joins adjacent clauses conjunctively.
	OperatorAnd
)

func (o Operator) String() string {
	if o == OperatorAnd {
		return "AND"
	}
	return "OR"
}

// Attribute kinds understood by the components of this module. Specializations
// declare further keys in their own packages.
var (
	// DefaultField is the field applied to clauses with no explicit field.
	DefaultField = NewKey[string]("default field")

	// DefaultOperator joins clauses that are merely adjacent in the query text.
	DefaultOperator = NewKey[Operator]("default operator")

	// AllowLeadingWildcard permits patterns such as *term, which are expensive
	// to execute and rejected by default.
	AllowLeadingWildcard = NewKey[bool]("allow leading wildcard")

	// FuzzyMinSimilarity is the similarity applied to a bare ~ suffix.
	FuzzyMinSimilarity = NewKey[float64]("fuzzy minimum similarity")
)
