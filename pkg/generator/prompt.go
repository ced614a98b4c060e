package generator

import (
	"fmt"
	"strings"

	"github.com/shouni/socialgen-nano/pkg/domain"
)

const (
	referenceEditTemplate = "Edit the first image using the style, lighting, and aesthetic of the second image as a high-fidelity reference. User instructions: %s. Ensure the output is visually balanced for a premium Instagram feed."
	plainEditTemplate     = "Edit this image based on the following instruction: %s. Maintain professional quality and high visual balance for a social media feed."

	copyTriggerText = "Gere a estratégia de conteúdo para este post."

	ctaDirectiveStrong = "ATIVADO (SER AGRESSIVO NA CONVERSÃO)"
	ctaDirectiveSoft   = "DESATIVADO (SER CONVIDATIVO)"

	ctaGuidelineStrong = "Crie uma chamada imperativa e urgente."
	ctaGuidelineSoft   = "Use um convite suave."
)

const copySystemTemplate = `Você é um estrategista de conteúdo sênior de classe mundial, especializado em Instagram e Branding de Alta Conversão.
Sua missão é criar postagens que dominem o feed através de um equilíbrio visual perfeito e linguagem psicológica estratégica.

DIRETRIZES ESTRATÉGICAS:
1. EQUILÍBRIO VISUAL: O 'mainText' deve ser curto (máximo 4 palavras) para maximizar o impacto estético.
2. LINGUAGEM: Use gatilhos mentais (autoridade, escassez ou curiosidade) dependendo do tom.
3. CTA (Call to Action): %s
4. FORMATAÇÃO: O 'mainText' e o 'cta' DEVEM ser gerados em CAIXA ALTA (MAIÚSCULO).

CONTEXTO DA CAMPANHA:
Edição solicitada: "%s".
Tom: %s.
CTA Ultra-Forte: %s.

SAÍDA: JSON obrigatório.`

// BuildEditInstruction は画像編集リクエストのテキストパーツを組み立てます。
func BuildEditInstruction(instruction string, hasReference bool) string {
	instruction = strings.TrimSpace(instruction)
	if hasReference {
		return fmt.Sprintf(referenceEditTemplate, instruction)
	}
	return fmt.Sprintf(plainEditTemplate, instruction)
}

// BuildCopySystemInstruction はコピー生成用のシステム指示を組み立てます。
func BuildCopySystemInstruction(instruction string, tone domain.Tone, emphasizeCTA bool) string {
	guideline, directive := ctaGuidelineSoft, ctaDirectiveSoft
	if emphasizeCTA {
		guideline, directive = ctaGuidelineStrong, ctaDirectiveStrong
	}
	return fmt.Sprintf(copySystemTemplate, guideline, strings.TrimSpace(instruction), tone, directive)
}
