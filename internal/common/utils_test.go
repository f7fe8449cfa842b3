package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Snow", "snow"))
	assert.True(t, ContainsFold("rain and SNOW", "snow"))
	assert.False(t, ContainsFold("rain", "snow"))
	assert.False(t, ContainsFold("", "snow"))
}
