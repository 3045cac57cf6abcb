package apiclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/vendorapi/pkg/apiclient"
)

type createWidget struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	require.NoError(t, apiclient.ValidateRequest(&createWidget{Name: "ok"}))

	err := apiclient.ValidateRequest(&createWidget{Email: "not-an-email"})
	require.ErrorIs(t, err, apiclient.ErrInvalidRequest)
	assert.Contains(t, err.Error(), `Name failed "required"`)
	assert.Contains(t, err.Error(), `Email failed "email"`)
}
