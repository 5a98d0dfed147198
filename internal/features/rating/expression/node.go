package expression

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NodeType tags the variant carried by a Node.
type NodeType string

const (
	// NodeField references a named value in the evaluation context.
	NodeField NodeType = "field"
	// NodeValue is a numeric literal.
	NodeValue NodeType = "value"
	// NodeOperator is an arithmetic or comparison operator.
	NodeOperator NodeType = "operator"
	// NodeGroup is a parenthesised sub-expression.
	NodeGroup NodeType = "group"
)

// Operator is one of the operators the rule builder can insert.
type Operator string

const (
	OpAdd          Operator = "+"
	OpSub          Operator = "-"
	OpMul          Operator = "*"
	OpDiv          Operator = "/"
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpEqual        Operator = "=="
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpNotEqual     Operator = "!="
)

// IsComparison reports whether op produces a boolean.
func (op Operator) IsComparison() bool {
	switch op {
	case OpGreater, OpLess, OpEqual, OpGreaterEqual, OpLessEqual, OpNotEqual:
		return true
	}
	return false
}

// IsArithmetic reports whether op folds two numbers into a number.
func (op Operator) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// Node is a single element of a rule expression.
// Exactly one of Field, Number, Op or Children is meaningful, selected by Type.
type Node struct {
	Type     NodeType
	Field    string
	Number   float64
	Op       Operator
	Children []Node
}

// Field builds a field reference node.
func Field(name string) Node { return Node{Type: NodeField, Field: name} }

// Value builds a numeric literal node.
func Value(n float64) Node { return Node{Type: NodeValue, Number: n} }

// Op builds an operator node.
func Op(op Operator) Node { return Node{Type: NodeOperator, Op: op} }

// Group builds a group node around children.
func Group(children ...Node) Node { return Node{Type: NodeGroup, Children: children} }

// wireNode is the JSON shape produced by the rule builder:
// {"type":"field","value":"weight"}, {"type":"value","value":20},
// {"type":"operator","value":">"}, {"type":"group","children":[...]}.
type wireNode struct {
	Type     NodeType        `json:"type"`
	Value    json.RawMessage `json:"value,omitempty"`
	Children []Node          `json:"children,omitempty"`
}

// MarshalJSON encodes the node in the rule builder's shape.
func (n Node) MarshalJSON() ([]byte, error) {
	w := wireNode{Type: n.Type}
	var (
		raw []byte
		err error
	)
	switch n.Type {
	case NodeField:
		raw, err = json.Marshal(n.Field)
	case NodeValue:
		raw, err = json.Marshal(n.Number)
	case NodeOperator:
		raw, err = json.Marshal(string(n.Op))
	case NodeGroup:
		w.Children = n.Children
		if w.Children == nil {
			w.Children = []Node{}
		}
	default:
		return nil, fmt.Errorf("unknown node type %q", n.Type)
	}
	if err != nil {
		return nil, err
	}
	w.Value = raw
	return json.Marshal(w)
}

// UnmarshalJSON decodes the rule builder's shape. Literal values stored as
// strings (older rule exports) are accepted when they parse as numbers.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*n = Node{Type: w.Type}
	switch w.Type {
	case NodeField:
		return json.Unmarshal(w.Value, &n.Field)
	case NodeValue:
		if len(w.Value) == 0 || string(w.Value) == "null" {
			return nil
		}
		if err := json.Unmarshal(w.Value, &n.Number); err == nil {
			return nil
		}
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return fmt.Errorf("value node: %w", err)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("value node %q is not numeric", s)
		}
		n.Number = f
		return nil
	case NodeOperator:
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return fmt.Errorf("operator node: %w", err)
		}
		n.Op = Operator(s)
		return nil
	case NodeGroup:
		n.Children = w.Children
		return nil
	default:
		// Kept as-is; the evaluator reports it as malformed.
		return nil
	}
}
