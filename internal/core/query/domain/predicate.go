package domain

// Predicate is an immutable boolean condition used by WHERE and HAVING.
type Predicate interface {
	isPredicate()
}

// ComparisonOperator represents comparison operators.
type ComparisonOperator string

const (
	// Equals checks equality.
	Equals ComparisonOperator = "equals"
	// NotEquals checks inequality.
	NotEquals ComparisonOperator = "not"
	// Lt checks if value is less than.
	Lt ComparisonOperator = "lt"
	// Lte checks if value is less than or equal.
	Lte ComparisonOperator = "lte"
	// Gt checks if value is greater than.
	Gt ComparisonOperator = "gt"
	// Gte checks if value is greater than or equal.
	Gte ComparisonOperator = "gte"
)

// LogicalOperator combines predicates.
type LogicalOperator string

const (
	// AND requires every operand.
	AND LogicalOperator = "AND"
	// OR requires any operand.
	OR LogicalOperator = "OR"
)

// Comparison compares two expressions.
type Comparison struct {
	Left     Expression
	Operator ComparisonOperator
	Right    Expression
}

func (Comparison) isPredicate() {}

// Logical joins operands with AND or OR.
type Logical struct {
	Operator LogicalOperator
	operands []Predicate
}

// Operands returns a copy of the operands.
func (l Logical) Operands() []Predicate {
	return append([]Predicate(nil), l.operands...)
}

func (Logical) isPredicate() {}

// Not negates its operand.
type Not struct {
	Operand Predicate
}

func (Not) isPredicate() {}

// NullCheck tests for NULL.
type NullCheck struct {
	Expr    Expression
	Negated bool
}

func (NullCheck) isPredicate() {}

// InList tests membership in a list of expressions.
type InList struct {
	Expr    Expression
	values  []Expression
	Negated bool
}

// Values returns a copy of the candidate values.
func (in InList) Values() []Expression {
	return append([]Expression(nil), in.values...)
}

func (InList) isPredicate() {}

// Like matches a pattern. Insensitive lowers both sides.
type Like struct {
	Expr        Expression
	Pattern     Expression
	Insensitive bool
}

func (Like) isPredicate() {}

// Eq compares l = r.
func Eq(l, r Expression) Comparison { return Comparison{Left: l, Operator: Equals, Right: r} }

// Ne compares l != r.
func Ne(l, r Expression) Comparison { return Comparison{Left: l, Operator: NotEquals, Right: r} }

// LessThan compares l < r.
func LessThan(l, r Expression) Comparison { return Comparison{Left: l, Operator: Lt, Right: r} }

// LessOrEqual compares l <= r.
func LessOrEqual(l, r Expression) Comparison { return Comparison{Left: l, Operator: Lte, Right: r} }

// GreaterThan compares l > r.
func GreaterThan(l, r Expression) Comparison { return Comparison{Left: l, Operator: Gt, Right: r} }

// GreaterOrEqual compares l >= r.
func GreaterOrEqual(l, r Expression) Comparison {
	return Comparison{Left: l, Operator: Gte, Right: r}
}

// And joins predicates with AND.
func And(ps ...Predicate) Logical {
	return Logical{Operator: AND, operands: append([]Predicate(nil), ps...)}
}

// Or joins predicates with OR.
func Or(ps ...Predicate) Logical {
	return Logical{Operator: OR, operands: append([]Predicate(nil), ps...)}
}

// IsNull tests e IS NULL.
func IsNull(e Expression) NullCheck { return NullCheck{Expr: e} }

// IsNotNull tests e IS NOT NULL.
func IsNotNull(e Expression) NullCheck { return NullCheck{Expr: e, Negated: true} }

// In tests e IN (values...).
func In(e Expression, values ...Expression) InList {
	return InList{Expr: e, values: append([]Expression(nil), values...)}
}

// NotIn tests e NOT IN (values...).
func NotIn(e Expression, values ...Expression) InList {
	return InList{Expr: e, values: append([]Expression(nil), values...), Negated: true}
}
