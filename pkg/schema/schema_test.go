package schema_test

import (
	"reflect"
	"testing"

	"github.com/effective-security/factoryagent/pkg/llmutils"
	"github.com/effective-security/factoryagent/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Query represents a request with required and optional parameters.
type Query struct {
	Question string `json:"question" jsonschema:"title=Question,description=The question to answer"`
	Topic    string `json:"topic,omitempty" jsonschema:"title=Topic,description=Optional topic of the question"`
}

// Report has a nested struct, reflected through a resolved reference.
type Report struct {
	Name  string  `json:"name" jsonschema:"title=Name,description=Report name"`
	Range *Window `json:"range,omitempty" jsonschema:"title=Range,description=Optional report window"`
}

// Window is a nested value type.
type Window struct {
	From string `json:"from" jsonschema:"title=From,description=Window start"`
	To   string `json:"to" jsonschema:"title=To,description=Window end"`
}

func TestSchema(t *testing.T) {
	t.Parallel()

	t.Run("flat", func(t *testing.T) {
		t.Parallel()
		s, err := schema.New(reflect.TypeOf(Query{}))
		require.NoError(t, err)

		exp := `{
	"properties": {
		"question": {
			"type": "string",
			"title": "Question",
			"description": "The question to answer"
		},
		"topic": {
			"type": "string",
			"title": "Topic",
			"description": "Optional topic of the question"
		}
	},
	"type": "object",
	"required": [
		"question"
	]
}`
		assert.Equal(t, exp, s.String())
		assert.Equal(t, exp, llmutils.ToJSONIndent(s.Parameters))
	})

	t.Run("nested", func(t *testing.T) {
		t.Parallel()
		s, err := schema.New(reflect.TypeOf(Report{}))
		require.NoError(t, err)

		// nested definitions are inlined, function parameters carry no $ref
		js := s.String()
		assert.NotContains(t, js, "$ref")
		assert.NotContains(t, js, "$defs")
		assert.Contains(t, js, `"Window start"`)
		assert.Contains(t, js, `"Window end"`)
	})

	t.Run("cached", func(t *testing.T) {
		t.Parallel()
		s1, err := schema.New(reflect.TypeOf(Query{}))
		require.NoError(t, err)
		s2, err := schema.New(reflect.TypeOf(Query{}))
		require.NoError(t, err)
		assert.Same(t, s1, s2)
	})

	t.Run("must", func(t *testing.T) {
		t.Parallel()
		s := schema.Must(reflect.TypeOf(Window{}))
		require.NotNil(t, s)
		assert.NotNil(t, s.Parameters)
	})
}
