package dsl

import (
	"praxis-hq/sentinel/pkg/predicates"
)

// CompiledExpr is a rule expression compiled against a predicate registry.
// It is immutable and safe for concurrent evaluation.
type CompiledExpr struct {
	source   string
	root     Expr
	registry *predicates.Registry
}

// Compile parses and validates rule source against the registry. Unknown
// predicates, malformed syntax, and arity violations return *SyntaxError;
// callers must downgrade a failed compile to an always-false rule rather
// than propagate.
func Compile(source string, registry *predicates.Registry) (*CompiledExpr, error) {
	root, err := Parse(source)
	if err != nil {
		return nil, err
	}

	if err := validate(source, root, registry); err != nil {
		return nil, err
	}

	return &CompiledExpr{
		source:   source,
		root:     root,
		registry: registry,
	}, nil
}

// Source returns the rule source text this expression was compiled from.
func (c *CompiledExpr) Source() string {
	return c.source
}

// Eval evaluates the expression against a plan and context. Any panic during
// evaluation is recovered and yields false: a faulting rule refuses to match
// rather than taking down the evaluation.
func (c *CompiledExpr) Eval(plan, context map[string]any) (matched bool) {
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()

	return c.eval(c.root, plan, context)
}

func (c *CompiledExpr) eval(node Expr, plan, context map[string]any) bool {
	switch n := node.(type) {
	case *LogicalNode:
		// Eager evaluation: every child runs so evaluation order can never
		// influence the outcome.
		results := make([]bool, len(n.Children))
		for i, child := range n.Children {
			results[i] = c.eval(child, plan, context)
		}

		switch n.Op {
		case OpAnd:
			for _, r := range results {
				if !r {
					return false
				}
			}
			return true
		case OpOr:
			for _, r := range results {
				if r {
					return true
				}
			}
			return false
		case OpNot:
			return !results[0]
		default:
			return false
		}

	case *PredicateNode:
		spec, ok := c.registry.Lookup(n.Name)
		if !ok {
			// Unreachable after Compile validation; refuse to match.
			return false
		}

		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = resolveArg(arg, plan, context)
		}

		return spec.Fn(args)

	default:
		return false
	}
}

// resolveArg resolves a predicate argument: literals pass through, path
// references are looked up by dotted path (missing path resolves to nil).
func resolveArg(arg Arg, plan, context map[string]any) any {
	switch a := arg.(type) {
	case Literal:
		return a.Value
	case PathRef:
		root := plan
		if a.FromContext {
			root = context
		}
		return lookupPath(root, a.Path)
	default:
		return nil
	}
}

// lookupPath walks nested maps by path segments. Any missing segment or
// non-map intermediate yields nil.
func lookupPath(root map[string]any, path []string) any {
	var current any = root
	for _, segment := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// validate walks the AST checking every predicate call against the registry.
func validate(source string, node Expr, registry *predicates.Registry) error {
	switch n := node.(type) {
	case *LogicalNode:
		for _, child := range n.Children {
			if err := validate(source, child, registry); err != nil {
				return err
			}
		}
		return nil

	case *PredicateNode:
		if err := registry.Validate(n.Name, len(n.Args)); err != nil {
			return &SyntaxError{Source: source, Pos: -1, Message: err.Error()}
		}
		return nil

	default:
		return syntaxErrorf(source, -1, "unknown AST node %T", node)
	}
}
