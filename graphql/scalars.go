package graphql

import (
	"encoding"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/datastax/data-views/types"
)

var record = graphql.NewScalar(graphql.ScalarConfig{
	Name: "Record",
	Description: "The `Record` scalar type represents a dataset record as a JSON object" +
		" of field names to values.",
	Serialize:    serializeRecord,
	ParseValue:   identityFn,
	ParseLiteral: literalValue,
})

var bound = graphql.NewScalar(graphql.ScalarConfig{
	Name: "Bound",
	Description: "The `Bound` scalar type represents a range bound as a number or a numeric string." +
		" Values that can't be read as a number don't constrain the range.",
	Serialize:    identityFn,
	ParseValue:   identityFn,
	ParseLiteral: literalValue,
})

var timestamp = newStringScalar(
	"Timestamp", "The `Timestamp` scalar type represents a DateTime."+
		" The Timestamp is serialized as an RFC 3339 quoted string",
	serializeTimestamp, deserializeTimestamp)

// newStringScalar Creates an string-based scalar with custom serialization functions
func newStringScalar(
	name string, description string, serializeFn graphql.SerializeFn, deserializeFn graphql.ParseValueFn,
) *graphql.Scalar {
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:         name,
		Description:  description,
		Serialize:    serializeFn,
		ParseValue:   deserializeFn,
		ParseLiteral: parseLiteralFromStringHandler(deserializeFn),
	})
}

func identityFn(value interface{}) interface{} {
	return value
}

func parseLiteralFromStringHandler(parser graphql.ParseValueFn) graphql.ParseLiteralFn {
	return func(valueAST ast.Value) interface{} {
		switch valueAST := valueAST.(type) {
		case *ast.StringValue:
			return parser(valueAST.Value)
		}
		return nil
	}
}

// literalValue converts an inline literal into plain values, numbers are float64
func literalValue(valueAST ast.Value) interface{} {
	switch valueAST := valueAST.(type) {
	case *ast.StringValue:
		return valueAST.Value
	case *ast.BooleanValue:
		return valueAST.Value
	case *ast.EnumValue:
		return valueAST.Value
	case *ast.IntValue:
		if f, err := strconv.ParseFloat(valueAST.Value, 64); err == nil {
			return f
		}
	case *ast.FloatValue:
		if f, err := strconv.ParseFloat(valueAST.Value, 64); err == nil {
			return f
		}
	case *ast.ListValue:
		items := make([]interface{}, len(valueAST.Values))
		for i, item := range valueAST.Values {
			items[i] = literalValue(item)
		}
		return items
	case *ast.ObjectValue:
		items := make(map[string]interface{}, len(valueAST.Fields))
		for _, field := range valueAST.Fields {
			items[field.Name.Value] = literalValue(field.Value)
		}
		return items
	}
	return nil
}

func serializeRecord(value interface{}) interface{} {
	switch value := value.(type) {
	case types.Record:
		return map[string]interface{}(value)
	default:
		return value
	}
}

var deserializeTimestamp = deserializeFromUnmarshaler(func() encoding.TextUnmarshaler {
	return &time.Time{}
})

func deserializeFromUnmarshaler(factory func() encoding.TextUnmarshaler) graphql.ParseValueFn {
	var fn func(value interface{}) interface{}

	fn = func(value interface{}) interface{} {
		switch value := value.(type) {
		case []byte:
			t := factory()
			err := t.UnmarshalText(value)
			if err != nil {
				return nil
			}

			return t
		case string:
			return fn([]byte(value))
		default:
			return value
		}
	}

	return fn
}

func serializeTimestamp(value interface{}) interface{} {
	switch value := value.(type) {
	case time.Time:
		if value.IsZero() {
			return nil
		}
		return value.Format(time.RFC3339Nano)
	case *time.Time:
		if value == nil {
			return nil
		}
		return serializeTimestamp(*value)
	default:
		return value
	}
}
