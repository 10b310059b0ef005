package tokenstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zalando/go-keyring"
)

func TestKeyring(t *testing.T) {
	keyring.MockInit()
	contract(t, NewKeyring("culinary-test"))
}

func TestNewKeyring_DefaultService(t *testing.T) {
	assert.Equal(t, DefaultService, NewKeyring("").service)
}
