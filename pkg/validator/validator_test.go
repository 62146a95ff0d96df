package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type createTaskPayload struct {
	Title    string `json:"title" validate:"required,max=200"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

func TestValidateStructPasses(t *testing.T) {
	err := ValidateStruct(createTaskPayload{Title: "Ship release", Priority: "high"})
	require.NoError(t, err)
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(createTaskPayload{Priority: "sometime"})
	require.Error(t, err)

	failures, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, failures, 2)
	require.Equal(t, "title", failures[0].Field)
	require.Equal(t, "required", failures[0].Tag)
	require.Equal(t, "priority", failures[1].Field)
	require.Equal(t, "oneof", failures[1].Tag)
}
