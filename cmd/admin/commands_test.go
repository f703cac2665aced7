package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unistay-backend/internal/domain"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"migrate", "create-superuser", "add-amenity"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestAddAmenity_RequiresName(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"add-amenity"})

	err := root.Execute()

	assert.Error(t, err)
}

func TestCreateSuperuser_RequiresFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"create-superuser", "--username", "root"})

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestDescribe(t *testing.T) {
	v := (&domain.ValidationError{}).Add("password", "password must be at least 8 characters")

	err := describe(v)

	assert.EqualError(t, err, "password: password must be at least 8 characters")
	assert.Equal(t, assert.AnError, describe(assert.AnError))
}
