package dbinfo_test

import (
	"context"
	"testing"

	"github.com/effective-security/factoryagent/tools/dbinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const description = "The database contains the tables machine, ambient and logs."

func TestTool(t *testing.T) {
	t.Parallel()

	tool, err := dbinfo.New(description)
	require.NoError(t, err)

	assert.Equal(t, dbinfo.ToolName, tool.Name())
	assert.NotEmpty(t, tool.Description())
	assert.NotNil(t, tool.Parameters())

	out, err := tool.Call(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, description, out)

	// arguments are ignored
	out, err = tool.Call(context.Background(), `{"unexpected": true}`)
	require.NoError(t, err)
	assert.Equal(t, description, out)
}

func TestNewEmpty(t *testing.T) {
	t.Parallel()

	_, err := dbinfo.New("")
	assert.EqualError(t, err, "database description is not configured")
}
