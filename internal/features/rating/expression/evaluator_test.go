package expression

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Conditions(t *testing.T) {
	ctx := Context{"weight": 25, "boxCount": 3, "volume": 0.5}

	tests := []struct {
		name     string
		nodes    []Node
		expected bool
	}{
		{
			name:     "Greater holds",
			nodes:    []Node{Field("weight"), Op(OpGreater), Value(20)},
			expected: true,
		},
		{
			name:     "Less fails",
			nodes:    []Node{Field("weight"), Op(OpLess), Value(20)},
			expected: false,
		},
		{
			name:     "Equal",
			nodes:    []Node{Field("boxCount"), Op(OpEqual), Value(3)},
			expected: true,
		},
		{
			name:     "Not equal",
			nodes:    []Node{Field("boxCount"), Op(OpNotEqual), Value(3)},
			expected: false,
		},
		{
			name:     "Greater or equal at boundary",
			nodes:    []Node{Field("weight"), Op(OpGreaterEqual), Value(25)},
			expected: true,
		},
		{
			name:     "Less or equal at boundary",
			nodes:    []Node{Field("weight"), Op(OpLessEqual), Value(25)},
			expected: true,
		},
		{
			name:     "Equality tolerates float noise",
			nodes:    []Node{Value(0.1), Op(OpAdd), Value(0.2), Op(OpEqual), Value(0.3)},
			expected: true,
		},
		{
			name:     "Missing field resolves to zero",
			nodes:    []Node{Field("unknown_field"), Op(OpGreater), Value(0)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Evaluate(tt.nodes, ctx)
			require.NoError(t, err)
			assert.True(t, result.IsBool())
			assert.Equal(t, tt.expected, result.Truthy())
		})
	}
}

func TestEvaluate_MissingFieldWithEmptyContext(t *testing.T) {
	result, err := Evaluate([]Node{Field("unknown_field"), Op(OpGreater), Value(0)}, Context{})

	require.NoError(t, err)
	assert.Equal(t, false, result.Interface())
}

func TestEvaluate_LeftFoldWithoutPrecedence(t *testing.T) {
	// 2 + 3 * 4 folds as (2 + 3) * 4.
	result, err := Evaluate([]Node{Value(2), Op(OpAdd), Value(3), Op(OpMul), Value(4)}, nil)

	require.NoError(t, err)
	assert.False(t, result.IsBool())
	assert.Equal(t, 20.0, result.Float())
}

func TestEvaluate_GroupIsSingleOperand(t *testing.T) {
	// 2 + (3 * 4)
	result, err := Evaluate([]Node{Value(2), Op(OpAdd), Group(Value(3), Op(OpMul), Value(4))}, nil)

	require.NoError(t, err)
	assert.Equal(t, 14.0, result.Float())
}

func TestEvaluate_ComparisonFoldsRightHandTail(t *testing.T) {
	ctx := Context{"weight": 10, "chargeWeight": 12}

	// weight + 5 > chargeWeight + 2  =>  15 > 14
	nodes := []Node{Field("weight"), Op(OpAdd), Value(5), Op(OpGreater), Field("chargeWeight"), Op(OpAdd), Value(2)}
	result, err := Evaluate(nodes, ctx)

	require.NoError(t, err)
	assert.True(t, result.Truthy())
}

func TestEvaluate_GroupedConditions(t *testing.T) {
	ctx := Context{"weight": 25, "boxCount": 1}

	and := []Node{
		Group(Field("weight"), Op(OpGreater), Value(20)),
		Op(OpMul),
		Group(Field("boxCount"), Op(OpGreater), Value(2)),
	}
	result, err := Evaluate(and, ctx)
	require.NoError(t, err)
	assert.False(t, result.Truthy())

	or := []Node{
		Group(Field("weight"), Op(OpGreater), Value(20)),
		Op(OpAdd),
		Group(Field("boxCount"), Op(OpGreater), Value(2)),
		Op(OpGreater),
		Value(0),
	}
	result, err = Evaluate(or, ctx)
	require.NoError(t, err)
	assert.True(t, result.Truthy())
}

func TestEvaluate_DivisionByZeroIsZero(t *testing.T) {
	result, err := Evaluate([]Node{Field("weight"), Op(OpDiv), Field("boxCount")}, Context{"weight": 10})

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Float())

	cond, err := Evaluate([]Node{Value(5), Op(OpDiv), Value(0), Op(OpEqual), Value(0)}, nil)
	require.NoError(t, err)
	assert.True(t, cond.Truthy())
}

func TestEvaluate_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		err   error
	}{
		{name: "Empty", nodes: nil, err: ErrEmptyExpression},
		{name: "Empty group", nodes: []Node{Group()}, err: ErrEmptyExpression},
		{name: "Dangling operator", nodes: []Node{Field("weight"), Op(OpGreater)}, err: ErrMalformed},
		{name: "Leading operator", nodes: []Node{Op(OpSub), Value(1)}, err: ErrMalformed},
		{name: "Adjacent operands", nodes: []Node{Value(1), Value(2)}, err: ErrMalformed},
		{name: "Unknown operator", nodes: []Node{Value(1), Op("%"), Value(2)}, err: ErrMalformed},
		{name: "Unknown node type", nodes: []Node{{Type: "lambda"}}, err: ErrMalformed},
		{
			name:  "Chained comparison",
			nodes: []Node{Value(1), Op(OpLess), Value(2), Op(OpLess), Value(3)},
			err:   ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.nodes, Context{})
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEvaluate_DepthCapEvaluatesFalse(t *testing.T) {
	inner := Group(Value(1), Op(OpEqual), Value(1))
	for i := 0; i < 10; i++ {
		inner = Group(inner)
	}

	shallow := NewEvaluator(Policy{MaxDepth: 64})
	result, err := shallow.Evaluate([]Node{inner}, nil)
	require.NoError(t, err)
	assert.True(t, result.Truthy())

	capped := NewEvaluator(Policy{MaxDepth: 5})
	result, err = capped.Evaluate([]Node{inner}, nil)
	require.NoError(t, err)
	assert.False(t, result.Truthy())
}

func TestEvaluate_NonFiniteInputsAreSanitized(t *testing.T) {
	result, err := Evaluate([]Node{Field("weight"), Op(OpMul), Value(2)}, Context{"weight": math.Inf(1)})

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Float())
}

func TestEvaluate_Idempotent(t *testing.T) {
	nodes := []Node{Group(Field("weight"), Op(OpMul), Value(2)), Op(OpGreaterEqual), Value(50)}
	ctx := Context{"weight": 25}

	first, err := Evaluate(nodes, ctx)
	require.NoError(t, err)
	second, err := Evaluate(nodes, ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first.Truthy())
	assert.Equal(t, Context{"weight": 25}, ctx)
}

func TestNode_JSONRoundTrip(t *testing.T) {
	raw := `[{"type":"group","children":[{"type":"field","value":"weight"},{"type":"operator","value":">"},{"type":"value","value":20}]},{"type":"operator","value":"*"},{"type":"value","value":"1"}]`

	var nodes []Node
	require.NoError(t, json.Unmarshal([]byte(raw), &nodes))
	require.Len(t, nodes, 3)
	assert.Equal(t, NodeGroup, nodes[0].Type)
	assert.Equal(t, "weight", nodes[0].Children[0].Field)
	assert.Equal(t, OpGreater, nodes[0].Children[1].Op)
	assert.Equal(t, 20.0, nodes[0].Children[2].Number)
	assert.Equal(t, 1.0, nodes[2].Number)

	out, err := json.Marshal(nodes[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"group","children":[{"type":"field","value":"weight"},{"type":"operator","value":">"},{"type":"value","value":20}]}`, string(out))
}

func TestNode_UnmarshalRejectsNonNumericValue(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"type":"value","value":"heavy"}`), &n)
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "always", Describe(nil))
	assert.Equal(t, "weight > 20", Describe([]Node{Field("weight"), Op(OpGreater), Value(20)}))
	assert.Equal(t,
		"(weight > 20.5) * (boxCount >= 3)",
		Describe([]Node{
			Group(Field("weight"), Op(OpGreater), Value(20.5)),
			Op(OpMul),
			Group(Field("boxCount"), Op(OpGreaterEqual), Value(3)),
		}),
	)
}
