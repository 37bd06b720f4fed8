package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesPrefix(t *testing.T) {
	id := NewShapeID()
	assert.True(t, strings.HasPrefix(id, PrefixShape+"_"), id)
	require.NoError(t, Validate(id, PrefixShape))
	assert.NotEqual(t, id, NewShapeID())
}

func TestValidateRejects(t *testing.T) {
	assert.Error(t, Validate("not-an-id", PrefixSession))
	assert.Error(t, Validate(NewShapeID(), PrefixSession))
	assert.NoError(t, Validate(NewSessionID(), PrefixSession))
}
