package domain

// Placeholder is one element of a container's command, args or env value.
// The set of implementations is closed: Literal, InputValue, InputPath,
// OutputPath, Concat and If.
type Placeholder interface {
	isPlaceholder()
}

// Condition is the predicate of an If placeholder.
// Implementations: Literal, BoolLiteral, IsPresent and InputValue.
type Condition interface {
	isCondition()
}

// Literal is a constant string. It doubles as a placeholder, a condition and an argument.
type Literal string

// BoolLiteral is a constant boolean condition.
type BoolLiteral bool

// InputValue expands to the value of the named input.
// As a condition it is true when the bound literal equals "true" (case-insensitive).
type InputValue struct {
	Name string
}

// InputPath expands to the local path of the named input artifact.
type InputPath struct {
	Name string
}

// OutputPath expands to the local path the named output must be written to.
type OutputPath struct {
	Name string
}

// Concat joins the expansions of its items.
type Concat struct {
	Items []Placeholder
}

// If expands Then when Cond holds and Else otherwise.
type If struct {
	Cond Condition
	Then []Placeholder
	Else []Placeholder
}

// IsPresent holds when the named input has a binding.
type IsPresent struct {
	Name string
}

func (Literal) isPlaceholder()    {}
func (InputValue) isPlaceholder() {}
func (InputPath) isPlaceholder()  {}
func (OutputPath) isPlaceholder() {}
func (Concat) isPlaceholder()     {}
func (If) isPlaceholder()         {}

func (Literal) isCondition()     {}
func (BoolLiteral) isCondition() {}
func (IsPresent) isCondition()   {}
func (InputValue) isCondition()  {}
