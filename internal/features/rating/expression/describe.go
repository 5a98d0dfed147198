package expression

import (
	"strconv"
	"strings"
)

// Describe renders nodes as readable infix text, e.g. "(weight > 20) * (boxCount >= 3)".
// An empty list describes an unconditional rule.
func Describe(nodes []Node) string {
	if len(nodes) == 0 {
		return "always"
	}
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, describeNode(n))
	}
	return strings.Join(parts, " ")
}

func describeNode(n Node) string {
	switch n.Type {
	case NodeField:
		return n.Field
	case NodeValue:
		return strconv.FormatFloat(n.Number, 'f', -1, 64)
	case NodeOperator:
		return string(n.Op)
	case NodeGroup:
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			parts = append(parts, describeNode(c))
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return "?"
	}
}
