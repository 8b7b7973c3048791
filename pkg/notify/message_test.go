package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"(11) 98765-4321":   "5511987654321",
		"+55 11 98765-4321": "5511987654321",
		"5511987654321":     "5511987654321",
		"11987654321":       "5511987654321",
		"":                  "",
		"sem telefone":      "",
		" 21 3333 4444 ":    "552133334444",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}

func TestSignatureRequestMessage(t *testing.T) {
	msg := SignatureRequestMessage(SignatureRequest{
		ClientName:  "Maria",
		StageTitle:  "Fundação",
		Ordinal:     2,
		ProjectName: "Residencial Aurora",
		PublicURL:   "https://app.test/",
		Token:       "abc",
	})
	assert.Equal(t, "Olá Maria! 👋\n\n"+
		"A etapa *\"Fundação\"* (etapa 2) da obra *\"Residencial Aurora\"* foi aprovada e concluída.\n\n"+
		"📸 Visualize o relatório com fotos:\nhttps://app.test/etapa/abc\n\n"+
		"✍️ Confirme o recebimento com sua assinatura:\nhttps://app.test/assinar/abc\n\n"+
		"Atenciosamente,\nEquipe HubTav", msg)
}

func TestStageSummaryMessage(t *testing.T) {
	completed := time.Date(2026, 10, 17, 13, 45, 0, 0, time.UTC)
	base := StageSummary{
		ClientName:  "Maria",
		ProjectName: "Residencial Aurora",
		Ordinal:     1,
		StageTitle:  "Fundação",
		CompletedAt: completed,
	}

	msg := StageSummaryMessage(base)
	assert.Contains(t, msg, "✅ *Etapa 1: Fundação*\nStatus: Aprovada e Concluída\n")
	assert.Contains(t, msg, "Data de conclusão: 17/10/2026, 10:45")
	assert.NotContains(t, msg, "Descrição")
	assert.True(t, len(msg) > 0 && msg[len(msg)-len("Equipe Tavitrum"):] == "Equipe Tavitrum")

	base.Description = "  Sapatas  "
	assert.Contains(t, StageSummaryMessage(base), "\n\nDescrição: Sapatas\n\nAgradecemos sua confiança!")
}

func TestLinks(t *testing.T) {
	assert.Equal(t, "https://x/etapa/t", StageViewURL("https://x", "t"))
	assert.Equal(t, "https://x/assinar/t", StageSignURL("https://x/", "t"))
	assert.Equal(t, "https://x/assinar-obra/t", ProjectSignURL("https://x", "t"))
}
