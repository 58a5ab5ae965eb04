package model

type Operator string

const (
	OP_EQUALS       Operator = "equals"
	OP_NOT_EQUALS   Operator = "not_equals"
	OP_GREATER_THAN Operator = "greater_than"
	OP_LESS_THAN    Operator = "less_than"
	OP_CONTAINS     Operator = "contains"
	OP_IN           Operator = "in"
	OP_IS_EMPTY     Operator = "is_empty"
	OP_IS_NOT_EMPTY Operator = "is_not_empty"
)

// Condition is either a comparison leaf {variable, operator, value} or one of
// the combinators all, any and not. A nil All slice means the key was absent;
// an empty non-nil slice means it was present and empty.
type Condition struct {
	All      []*Condition `json:"all,omitempty"`
	Any      []*Condition `json:"any,omitempty"`
	Not      *Condition   `json:"not,omitempty"`
	Variable string       `json:"variable,omitempty"`
	Operator Operator     `json:"operator,omitempty"`
	Value    any          `json:"value,omitempty"`
}

func (c *Condition) IsLeaf() bool {
	return c.Variable != "" || c.Operator != ""
}
