// Package qual models the upstream qualification-filter schema.
//
// The upstream API dispatches on a JSON "type" tag for qualifications,
// operands and values. Each schema kind is a distinct Go type whose
// constructor fixes the tag, so a malformed filter cannot be built; the
// wire shape is reproduced exactly for interoperability.
package qual

// Schema type tags as the upstream API spells them.
const (
	TypeFlatQualification       = "FlatQualificationRest"
	TypeRelationalQualification = "RelationalQualificationRest"
	TypeUnaryQualification      = "UnaryQualificationRest"
	TypePropertyOperand         = "PropertyOperandRest"
	TypeValueOperand            = "ValueOperandRest"
	TypeListLongValue           = "ListLongValueRest"
	TypeListStringValue         = "ListStringValueRest"
	TypeLongValue               = "LongValueRest"
	TypeStringValue             = "StringValueRest"
)

// Operator is a relational or unary operator name.
type Operator string

// Operators used by this service. The upstream accepts both lower-case and
// capitalized spellings; the lower-case forms below match what the web UI
// sends.
const (
	OperatorIn        Operator = "in"
	OperatorNotIn     Operator = "not_in"
	OperatorContains  Operator = "contains"
	OperatorIsNull    Operator = "is_null"
	OperatorIsNotNull Operator = "is_not_null"
)

// Property keys for the request entity.
const (
	PropertyStatusID   = "request.statusId"
	PropertyPriorityID = "request.priorityId"
)

// Qualification is a node in the filter tree.
type Qualification interface{ qualification() }

// Operand is a side of a relational condition.
type Operand interface{ operand() }

// Value is a typed literal carried by a ValueOperand.
type Value interface{ value() }

// FlatQualification combines conditions with AND logic.
type FlatQualification struct {
	Type  string          `json:"type"`
	Quals []Qualification `json:"quals"`
}

func (*FlatQualification) qualification() {}

// NewFlat builds an AND-group over the given conditions.
func NewFlat(quals ...Qualification) *FlatQualification {
	return &FlatQualification{Type: TypeFlatQualification, Quals: quals}
}

// RelationalQualification compares a left operand against a right operand.
type RelationalQualification struct {
	Type         string   `json:"type"`
	LeftOperand  Operand  `json:"leftOperand"`
	Operator     Operator `json:"operator"`
	RightOperand Operand  `json:"rightOperand"`
}

func (*RelationalQualification) qualification() {}

// NewRelational builds a relational condition.
func NewRelational(left Operand, op Operator, right Operand) *RelationalQualification {
	return &RelationalQualification{
		Type:         TypeRelationalQualification,
		LeftOperand:  left,
		Operator:     op,
		RightOperand: right,
	}
}

// UnaryQualification applies a single-operand operator such as is_null.
type UnaryQualification struct {
	Type     string   `json:"type"`
	Operand  Operand  `json:"operand"`
	Operator Operator `json:"operator"`
}

func (*UnaryQualification) qualification() {}

// NewUnary builds a unary condition.
func NewUnary(operand Operand, op Operator) *UnaryQualification {
	return &UnaryQualification{Type: TypeUnaryQualification, Operand: operand, Operator: op}
}

// PropertyOperand references an entity property by key.
type PropertyOperand struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

func (*PropertyOperand) operand() {}

// Property builds a property operand.
func Property(key string) *PropertyOperand {
	return &PropertyOperand{Type: TypePropertyOperand, Key: key}
}

// ValueOperand wraps a typed literal value.
type ValueOperand struct {
	Type  string `json:"type"`
	Value Value  `json:"value"`
}

func (*ValueOperand) operand() {}

// Literal builds a value operand.
func Literal(v Value) *ValueOperand {
	return &ValueOperand{Type: TypeValueOperand, Value: v}
}

// ListLongValue is a list of long integers.
type ListLongValue struct {
	Type  string  `json:"type"`
	Value []int64 `json:"value"`
}

func (*ListLongValue) value() {}

// LongList builds a long-list value.
func LongList(ids ...int64) *ListLongValue {
	return &ListLongValue{Type: TypeListLongValue, Value: ids}
}

// ListStringValue is a list of strings.
type ListStringValue struct {
	Type  string   `json:"type"`
	Value []string `json:"value"`
}

func (*ListStringValue) value() {}

// StringList builds a string-list value.
func StringList(items ...string) *ListStringValue {
	return &ListStringValue{Type: TypeListStringValue, Value: items}
}

// StringValue is a single string literal.
type StringValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (*StringValue) value() {}

// String builds a string value.
func String(s string) *StringValue {
	return &StringValue{Type: TypeStringValue, Value: s}
}

// SearchBody is the request body of a qualification search call.
type SearchBody struct {
	QualDetails *FlatQualification `json:"qualDetails"`
}
