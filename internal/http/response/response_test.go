package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := StatusOKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestOK(t *testing.T) {
	resp := OK()

	assert.Equal(t, StatusOK, resp.Status)
	assert.Nil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("user not found")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "user not found", resp.Error)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Username string `validate:"required"`
		Password string `validate:"min=3"`
		Token    string `validate:"max=4"`
	}

	err := validator.New().Struct(TestStruct{Password: "ab", Token: "too-long"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Username is a required field")
	assert.Contains(t, resp.Error, "field Password must be at least 3 characters long")
	assert.Contains(t, resp.Error, "field Token must be at most 4 characters long")
}
