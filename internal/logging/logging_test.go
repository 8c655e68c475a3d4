package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitSetsLevel(t *testing.T) {
	Init(false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	Init(true)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
