package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskNormaliseLowercasesEnums(t *testing.T) {
	task := Task{Status: " In_Progress ", Priority: "HIGH"}
	task.Normalise()

	require.Equal(t, TaskStatusInProgress, task.Status)
	require.Equal(t, TaskPriorityHigh, task.Priority)
}

func TestValidTaskStatus(t *testing.T) {
	require.True(t, ValidTaskStatus("todo"))
	require.True(t, ValidTaskStatus(" Done "))
	require.False(t, ValidTaskStatus("archived"))
	require.False(t, ValidTaskStatus(""))
}

func TestValidTaskPriority(t *testing.T) {
	require.True(t, ValidTaskPriority("urgent"))
	require.False(t, ValidTaskPriority("asap"))
}
