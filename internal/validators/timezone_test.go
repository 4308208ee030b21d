package validators

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zoned struct {
	Timezone string `binding:"omitempty,iana_tz"`
}

func TestRegister_IANATimezone(t *testing.T) {
	require.NoError(t, Register())

	assert.NoError(t, binding.Validator.ValidateStruct(zoned{Timezone: "America/Sao_Paulo"}))
	assert.NoError(t, binding.Validator.ValidateStruct(zoned{}))
	assert.Error(t, binding.Validator.ValidateStruct(zoned{Timezone: "Mars/Olympus"}))
}
