package utils_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/farmsim-go/pkg/utils"
)

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, utils.Clamp01(-0.5))
	assert.Equal(t, 0.25, utils.Clamp01(0.25))
	assert.Equal(t, 1.0, utils.Clamp01(1.7))
}

func TestFloorZero(t *testing.T) {
	assert.Equal(t, 0.0, utils.FloorZero(-3))
	assert.Equal(t, 3.0, utils.FloorZero(3))
}

func TestIsPositiveFinite(t *testing.T) {
	assert.True(t, utils.IsPositiveFinite(0.5))
	assert.False(t, utils.IsPositiveFinite(0))
	assert.False(t, utils.IsPositiveFinite(-1))
	assert.False(t, utils.IsPositiveFinite(math.NaN()))
	assert.False(t, utils.IsPositiveFinite(math.Inf(1)))
}

func TestGenerateEntityID(t *testing.T) {
	id := utils.GenerateEntityID("Corn")

	assert.True(t, strings.HasPrefix(id, "corn-"))
	assert.Len(t, id, len("corn-")+8)
	assert.NotEqual(t, id, utils.GenerateEntityID("Corn"))
	assert.Len(t, utils.GenerateEntityID(""), 8)
}
