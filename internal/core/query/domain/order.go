package domain

import (
	"fmt"
	"strings"
)

// Direction is the sort direction of an order.
type Direction string

const (
	// Ascending sorts smallest first.
	Ascending Direction = "ASC"
	// Descending sorts largest first.
	Descending Direction = "DESC"
)

// ParseDirection parses "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ASC":
		return Ascending, nil
	case "DESC":
		return Descending, nil
	default:
		return "", &InvalidOrderError{Reason: fmt.Sprintf("unknown direction %q", s)}
	}
}

// NullOrdering places NULL values within a sort.
type NullOrdering string

const (
	// NullsDefault leaves NULL placement to the database.
	NullsDefault NullOrdering = "DEFAULT"
	// NullsFirst sorts NULL values first.
	NullsFirst NullOrdering = "FIRST"
	// NullsLast sorts NULL values last.
	NullsLast NullOrdering = "LAST"
)

// ParseNullOrdering parses "first", "last" or "default" in any case.
func ParseNullOrdering(s string) (NullOrdering, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DEFAULT":
		return NullsDefault, nil
	case "FIRST", "NULLS FIRST":
		return NullsFirst, nil
	case "LAST", "NULLS LAST":
		return NullsLast, nil
	default:
		return "", &InvalidOrderError{Reason: fmt.Sprintf("unknown null ordering %q", s)}
	}
}

// Order is a single ordering instruction. It is immutable; two orders with
// equal fields are interchangeable.
type Order struct {
	expr      Expression
	direction Direction
	nulls     NullOrdering
}

// NewOrder validates and builds an order. An empty direction means ASC and
// an empty null ordering means NullsDefault.
func NewOrder(expr Expression, direction Direction, nulls NullOrdering) (Order, error) {
	if IsEmpty(expr) {
		return Order{}, &InvalidOrderError{Reason: "expression is empty"}
	}
	switch direction {
	case "":
		direction = Ascending
	case Ascending, Descending:
	default:
		return Order{}, &InvalidOrderError{Reason: fmt.Sprintf("unknown direction %q", direction)}
	}
	switch nulls {
	case "":
		nulls = NullsDefault
	case NullsDefault, NullsFirst, NullsLast:
	default:
		return Order{}, &InvalidOrderError{Reason: fmt.Sprintf("unknown null ordering %q", nulls)}
	}
	return Order{expr: expr, direction: direction, nulls: nulls}, nil
}

// MustOrder is like NewOrder but panics on error.
func MustOrder(expr Expression, direction Direction, nulls NullOrdering) Order {
	o, err := NewOrder(expr, direction, nulls)
	if err != nil {
		panic(err)
	}
	return o
}

// Asc orders expr ascending with default null placement.
func Asc(expr Expression) Order {
	return MustOrder(expr, Ascending, NullsDefault)
}

// Desc orders expr descending with default null placement.
func Desc(expr Expression) Order {
	return MustOrder(expr, Descending, NullsDefault)
}

// Expression returns the ordered expression.
func (o Order) Expression() Expression { return o.expr }

// Direction returns the sort direction.
func (o Order) Direction() Direction { return o.direction }

// NullOrdering returns the null placement.
func (o Order) NullOrdering() NullOrdering { return o.nulls }

// WithNulls returns a copy of o with a different null placement.
func (o Order) WithNulls(nulls NullOrdering) (Order, error) {
	return NewOrder(o.expr, o.direction, nulls)
}

// Equal reports structural equality.
func (o Order) Equal(other Order) bool {
	return o.direction == other.direction &&
		o.nulls == other.nulls &&
		EqualExpressions(o.expr, other.expr)
}

func (o Order) String() string {
	if o.expr == nil {
		return "<empty order>"
	}
	s := o.expr.String() + " " + string(o.direction)
	if o.nulls != NullsDefault {
		s += " NULLS " + string(o.nulls)
	}
	return s
}
