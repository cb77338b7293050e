package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	embedded "github.com/jonathan/interview-simulator/schemas"
)

const evalSchema = `{
	"type": "object",
	"required": ["score"],
	"properties": {"score": {"type": "number"}}
}`

func TestValidateJSONString(t *testing.T) {
	assert.NoError(t, ValidateJSONString(evalSchema, `{"score": 10}`))

	err := ValidateJSONString(evalSchema, `{"score": "ten"}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "score", validationErr.Errors[0].Field)
}

func TestValidateJSONString_MissingFieldAtRoot(t *testing.T) {
	err := ValidateJSONString(evalSchema, `{}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateDocument_UnknownSchema(t *testing.T) {
	err := ValidateDocument("job_profile", `{}`)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "job_profile")
}

func TestValidateDocument_NotJSON(t *testing.T) {
	err := ValidateDocument(embedded.HRQuestions, `Here are your questions`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, embedded.HRQuestions, validationErr.Schema)
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestValidateDocument_CachesCompiledSchema(t *testing.T) {
	require.NoError(t, ValidateDocument(embedded.DesignEvaluation, `{"score": 1, "feedback": "f"}`))
	first, err := schemaFor(embedded.DesignEvaluation)
	require.NoError(t, err)
	second, err := schemaFor(embedded.DesignEvaluation)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
