package dsl

// LogicalOp is a logical combinator in the expression language.
type LogicalOp string

const (
	OpAnd LogicalOp = "and"
	OpOr  LogicalOp = "or"
	OpNot LogicalOp = "not"
)

// Expr is an expression node: either a LogicalNode or a PredicateNode.
type Expr interface {
	exprNode()
}

// LogicalNode combines child expressions with and/or/not. Children are
// evaluated eagerly (no short-circuit) so that evaluation order can never
// influence the outcome.
type LogicalNode struct {
	Op       LogicalOp
	Children []Expr
}

func (*LogicalNode) exprNode() {}

// PredicateNode is a call to a named predicate with literal or path
// arguments.
type PredicateNode struct {
	Name string
	Args []Arg
}

func (*PredicateNode) exprNode() {}

// Arg is a predicate argument: either a Literal or a PathRef.
type Arg interface {
	argNode()
}

// Literal is a constant argument value: string, float64, bool, or nil.
type Literal struct {
	Value any
}

func (Literal) argNode() {}

// PathRef is a dotted path argument resolved at evaluation time. Paths
// prefixed "context." resolve against the context map (FromContext is true
// and Path holds the remaining segments); all other paths resolve against
// the plan.
type PathRef struct {
	Path        []string
	FromContext bool
}

func (PathRef) argNode() {}
