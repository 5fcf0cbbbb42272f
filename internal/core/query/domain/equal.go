package domain

// EqualQueries compares two query nodes structurally.
func EqualQueries(a, b *Query) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.table != b.table || a.distinct != b.distinct || a.forUpdate != b.forUpdate {
		return false
	}
	switch {
	case a.pagination == nil && b.pagination == nil:
	case a.pagination == nil || b.pagination == nil:
		return false
	case *a.pagination != *b.pagination:
		return false
	}
	if !equalExpressionLists(a.selection, b.selection) || !equalExpressionLists(a.grouping, b.grouping) {
		return false
	}
	if !EqualPredicates(a.filter, b.filter) || !EqualPredicates(a.having, b.having) {
		return false
	}
	if len(a.orders) != len(b.orders) {
		return false
	}
	for i := range a.orders {
		if !a.orders[i].Equal(b.orders[i]) {
			return false
		}
	}
	return true
}

// EqualPredicates compares two predicates structurally.
func EqualPredicates(a, b Predicate) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Comparison:
		y, ok := b.(Comparison)
		return ok && x.Operator == y.Operator &&
			EqualExpressions(x.Left, y.Left) && EqualExpressions(x.Right, y.Right)
	case Logical:
		y, ok := b.(Logical)
		if !ok || x.Operator != y.Operator || len(x.operands) != len(y.operands) {
			return false
		}
		for i := range x.operands {
			if !EqualPredicates(x.operands[i], y.operands[i]) {
				return false
			}
		}
		return true
	case Not:
		y, ok := b.(Not)
		return ok && EqualPredicates(x.Operand, y.Operand)
	case NullCheck:
		y, ok := b.(NullCheck)
		return ok && x.Negated == y.Negated && EqualExpressions(x.Expr, y.Expr)
	case InList:
		y, ok := b.(InList)
		return ok && x.Negated == y.Negated && EqualExpressions(x.Expr, y.Expr) &&
			equalExpressionLists(x.values, y.values)
	case Like:
		y, ok := b.(Like)
		return ok && x.Insensitive == y.Insensitive &&
			EqualExpressions(x.Expr, y.Expr) && EqualExpressions(x.Pattern, y.Pattern)
	default:
		return false
	}
}

func equalExpressionLists(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualExpressions(a[i], b[i]) {
			return false
		}
	}
	return true
}
