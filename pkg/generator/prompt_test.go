package generator

import (
	"testing"

	"github.com/shouni/socialgen-nano/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildCopySystemInstruction(t *testing.T) {
	strong := BuildCopySystemInstruction("lançamento", domain.ToneEducational, true)
	soft := BuildCopySystemInstruction("lançamento", domain.ToneEducational, false)

	assert.NotEqual(t, strong, soft)

	assert.Contains(t, strong, ctaDirectiveStrong)
	assert.Contains(t, strong, "urgente")
	assert.NotContains(t, strong, ctaDirectiveSoft)

	assert.Contains(t, soft, ctaDirectiveSoft)
	assert.Contains(t, soft, "convite suave")
	assert.NotContains(t, soft, "AGRESSIVO")
	assert.NotContains(t, soft, "urgente")

	for _, s := range []string{strong, soft} {
		assert.Contains(t, s, `Edição solicitada: "lançamento".`)
		assert.Contains(t, s, "Tom: Educativa.")
	}
}

func TestBuildEditInstruction(t *testing.T) {
	assert.Equal(t,
		"Edit this image based on the following instruction: make it blue. Maintain professional quality and high visual balance for a social media feed.",
		BuildEditInstruction("  make it blue ", false))

	withRef := BuildEditInstruction("make it blue", true)
	assert.Contains(t, withRef, "second image as a high-fidelity reference")
	assert.Contains(t, withRef, "User instructions: make it blue.")
}
