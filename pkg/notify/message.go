package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/hubtav/tavlist/pkg/utils"
)

// SignatureRequest carries what the signing invitation mentions.
type SignatureRequest struct {
	ClientName  string
	StageTitle  string
	Ordinal     int
	ProjectName string
	PublicURL   string
	Token       string
}

// StageViewURL is the public page listing the stage report and photos.
func StageViewURL(publicURL, token string) string {
	return strings.TrimRight(publicURL, "/") + "/etapa/" + token
}

// StageSignURL is the public page where the client signs for a stage.
func StageSignURL(publicURL, token string) string {
	return strings.TrimRight(publicURL, "/") + "/assinar/" + token
}

// ProjectSignURL is the public page where the client signs for a whole project.
func ProjectSignURL(publicURL, token string) string {
	return strings.TrimRight(publicURL, "/") + "/assinar-obra/" + token
}

func SignatureRequestMessage(r SignatureRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s! 👋\n\n", r.ClientName)
	fmt.Fprintf(&b, "A etapa *\"%s\"* (etapa %d) da obra *\"%s\"* foi aprovada e concluída.\n\n",
		r.StageTitle, r.Ordinal, r.ProjectName)
	fmt.Fprintf(&b, "📸 Visualize o relatório com fotos:\n%s\n\n", StageViewURL(r.PublicURL, r.Token))
	fmt.Fprintf(&b, "✍️ Confirme o recebimento com sua assinatura:\n%s\n\n", StageSignURL(r.PublicURL, r.Token))
	b.WriteString("Atenciosamente,\nEquipe HubTav")
	return b.String()
}

// StageSummary carries what the completed-stage update mentions.
type StageSummary struct {
	ClientName  string
	ProjectName string
	Ordinal     int
	StageTitle  string
	CompletedAt time.Time
	Description string
}

func StageSummaryMessage(s StageSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s! 👋\n\n", s.ClientName)
	fmt.Fprintf(&b, "Temos uma atualização sobre sua obra *\"%s\"*:\n\n", s.ProjectName)
	fmt.Fprintf(&b, "✅ *Etapa %d: %s*\n", s.Ordinal, s.StageTitle)
	b.WriteString("Status: Aprovada e Concluída\n")
	fmt.Fprintf(&b, "Data de conclusão: %s", utils.FormatDateTime(s.CompletedAt))
	if desc := strings.TrimSpace(s.Description); desc != "" {
		fmt.Fprintf(&b, "\n\nDescrição: %s", desc)
	}
	b.WriteString("\n\nAgradecemos sua confiança!\nEquipe Tavitrum")
	return b.String()
}
