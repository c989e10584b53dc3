package script

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_ReturnsExportedValue(t *testing.T) {
	interp := NewInterpreter(nil)

	value, err := interp.Execute(`return 2 + 3`, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), value)
}

func TestExecute_ReceivesArgs(t *testing.T) {
	interp := NewInterpreter(nil)

	value, err := interp.Execute(`return args.name + "!"`, map[string]interface{}{"name": "witness"})
	require.NoError(t, err)
	assert.Equal(t, "witness!", value)
}

func TestExecute_CallToolChains(t *testing.T) {
	var gotName string
	var gotParams map[string]interface{}
	interp := NewInterpreter(func(name string, params map[string]interface{}) (interface{}, error) {
		gotName = name
		gotParams = params
		return map[string]interface{}{"pong": true}, nil
	})

	value, err := interp.Execute(`return callTool("ping", {})`, nil)
	require.NoError(t, err)
	assert.Equal(t, "ping", gotName)
	assert.Empty(t, gotParams)
	assert.Equal(t, map[string]interface{}{"pong": true}, value)
}

func TestExecute_CallToolErrorSurfacesAsString(t *testing.T) {
	interp := NewInterpreter(func(name string, params map[string]interface{}) (interface{}, error) {
		return nil, errors.New("no recording in progress")
	})

	value, err := interp.Execute(`return callTool("recorder.stop", {})`, nil)
	require.NoError(t, err)
	assert.Contains(t, value.(string), "no recording in progress")
}

func TestExecute_SyntaxErrorReported(t *testing.T) {
	interp := NewInterpreter(nil)
	_, err := interp.Execute(`return ][`, nil)
	assert.Error(t, err)
}
