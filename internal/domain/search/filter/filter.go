package filter

import "fmt"

// Op is the comparison operation of a Condition.
type Op string

// Supported operations.
const (
	OpEq  Op = "="
	OpNe  Op = "!="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
	// OpContains tests array membership.
	OpContains Op = "?"
)

// IsValid reports whether o is a known operation.
func (o Op) IsValid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpContains:
		return true
	}
	return false
}

// ValueType is the declared type of a condition value or document field.
type ValueType string

// Supported value types.
const (
	TypeBoolean ValueType = "boolean"
	TypeNumber  ValueType = "number"
	TypeString  ValueType = "string"
	TypeArray   ValueType = "array"
)

// IsValid reports whether t is a known value type.
func (t ValueType) IsValid() bool {
	switch t {
	case TypeBoolean, TypeNumber, TypeString, TypeArray:
		return true
	}
	return false
}

// GroupType is the boolean connective of a Grouping.
type GroupType string

// Supported groupings. NOT negates the conjunction of its children.
const (
	And GroupType = "AND"
	Or  GroupType = "OR"
	Not GroupType = "NOT"
)

// IsValid reports whether g is a known grouping type.
func (g GroupType) IsValid() bool {
	return g == And || g == Or || g == Not
}

// Node is a filter tree node: either a Grouping or a Condition.
type Node interface {
	isNode()
}

// Condition is a leaf comparison of one document property against a typed value.
type Condition struct {
	op        Op
	property  string
	valueType ValueType
	value     any
}

func (Condition) isNode() {}

// NewCondition validates and creates a Condition.
// Values are bool for boolean, float64 for number, string for string and array membership.
func NewCondition(op Op, property string, vt ValueType, value any) (Condition, error) {
	if property == "" {
		return Condition{}, fmt.Errorf("filter property is required")
	}
	if !op.IsValid() {
		return Condition{}, fmt.Errorf("invalid operation %q for %q", op, property)
	}
	if !vt.IsValid() {
		return Condition{}, fmt.Errorf("invalid value type %q for %q", vt, property)
	}

	switch vt {
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return Condition{}, fmt.Errorf("property %q expects a boolean value, got %T", property, value)
		}
		if op != OpEq && op != OpNe {
			return Condition{}, fmt.Errorf("operation %q is not allowed on boolean %q", op, property)
		}
	case TypeNumber:
		f, ok := toFloat(value)
		if !ok {
			return Condition{}, fmt.Errorf("property %q expects a number value, got %T", property, value)
		}
		if op == OpContains {
			return Condition{}, fmt.Errorf("operation %q is not allowed on number %q", op, property)
		}
		value = f
	case TypeString:
		if _, ok := value.(string); !ok {
			return Condition{}, fmt.Errorf("property %q expects a string value, got %T", property, value)
		}
		if op != OpEq && op != OpNe {
			return Condition{}, fmt.Errorf("operation %q is not allowed on string %q", op, property)
		}
	case TypeArray:
		if _, ok := value.(string); !ok {
			return Condition{}, fmt.Errorf("property %q expects a string element, got %T", property, value)
		}
		if op != OpContains {
			return Condition{}, fmt.Errorf("array property %q only supports %q", property, OpContains)
		}
	}

	return Condition{op: op, property: property, valueType: vt, value: value}, nil
}

// Equals creates a boolean equality condition.
func Equals(property string, v bool) Condition {
	return Condition{op: OpEq, property: property, valueType: TypeBoolean, value: v}
}

// GreaterThan creates a numeric strict lower-bound condition.
func GreaterThan(property string, v float64) Condition {
	return Condition{op: OpGt, property: property, valueType: TypeNumber, value: v}
}

// Contains creates an array membership condition.
func Contains(property, element string) Condition {
	return Condition{op: OpContains, property: property, valueType: TypeArray, value: element}
}

// Op returns the comparison operation.
func (c Condition) Op() Op { return c.op }

// Property returns the document property name.
func (c Condition) Property() string { return c.property }

// Type returns the declared value type.
func (c Condition) Type() ValueType { return c.valueType }

// Value returns the raw comparison value.
func (c Condition) Value() any { return c.value }

// Bool returns the value of a boolean condition.
func (c Condition) Bool() bool {
	b, _ := c.value.(bool)
	return b
}

// Number returns the value of a number condition.
func (c Condition) Number() float64 {
	f, _ := toFloat(c.value)
	return f
}

// Text returns the value of a string or array condition.
func (c Condition) Text() string {
	s, _ := c.value.(string)
	return s
}

// Grouping combines child nodes with a boolean connective.
// A grouping without children matches every document.
type Grouping struct {
	groupType GroupType
	children  []Node
}

func (Grouping) isNode() {}

// NewGrouping validates and creates a Grouping.
func NewGrouping(gt GroupType, children ...Node) (Grouping, error) {
	if !gt.IsValid() {
		return Grouping{}, fmt.Errorf("invalid grouping type %q", gt)
	}
	for i, ch := range children {
		if ch == nil {
			return Grouping{}, fmt.Errorf("nil child at index %d", i)
		}
	}
	return Grouping{groupType: gt, children: children}, nil
}

// AllOf creates an AND grouping.
func AllOf(children ...Node) Grouping { return Grouping{groupType: And, children: children} }

// NoneOf creates a NOT grouping.
func NoneOf(children ...Node) Grouping { return Grouping{groupType: Not, children: children} }

// Type returns the grouping connective.
func (g Grouping) Type() GroupType { return g.groupType }

// Children returns the child nodes.
func (g Grouping) Children() []Node { return g.children }

// IsEmpty reports whether the grouping has no children.
func (g Grouping) IsEmpty() bool { return len(g.children) == 0 }

// Validate re-checks every node of a tree built outside the constructors.
func Validate(n Node) error {
	switch v := n.(type) {
	case Condition:
		_, err := NewCondition(v.op, v.property, v.valueType, v.value)
		return err
	case Grouping:
		if v.IsEmpty() {
			return nil
		}
		if _, err := NewGrouping(v.groupType, v.children...); err != nil {
			return err
		}
		for _, ch := range v.children {
			if err := Validate(ch); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown filter node %T", n)
	}
}

// Walk calls fn for every condition in the tree, depth-first.
func Walk(n Node, fn func(Condition)) {
	switch v := n.(type) {
	case Condition:
		fn(v)
	case Grouping:
		for _, ch := range v.children {
			Walk(ch, fn)
		}
	}
}

// Properties returns the distinct properties referenced by the tree, in first-seen order.
func Properties(n Node) []string {
	var out []string
	seen := make(map[string]bool)
	Walk(n, func(c Condition) {
		if !seen[c.property] {
			seen[c.property] = true
			out = append(out, c.property)
		}
	})
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
