package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCommand_Args(t *testing.T) {
	output, err := executeCommand(t, nil, "normalize",
		"insert ignore into log_entries (a) values (1)",
		"select  *\n from users")
	require.NoError(t, err)

	assert.Equal(t, "INSERT IGNORE INTO log_entries\nselect * from users\n", output)
}

func TestNormalizeCommand_Stdin(t *testing.T) {
	in := strings.NewReader("update users set a = 1\n\n  delete low_priority from sessions where id = 2\n")

	output, err := executeCommand(t, in, "normalize")
	require.NoError(t, err)

	assert.Equal(t, "UPDATE users\nDELETE LOW_PRIORITY FROM sessions\n", output)
}
