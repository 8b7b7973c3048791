package notify

import (
	"bytes"
	"html/template"

	"github.com/hubtav/tavlist/pkg/report"
	"github.com/hubtav/tavlist/pkg/utils"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Relatório da Obra</title></head>
<body style="font-family: Arial, sans-serif; color: #1f2937; max-width: 640px; margin: 0 auto; padding: 24px;">
  <h1 style="font-size: 22px; margin-bottom: 4px;">Relatório da Obra</h1>
  <h2 style="font-size: 16px; font-weight: normal; margin-top: 0;">{{.Doc.ProjectName}}</h2>

  <div style="background: #f3f4f6; border-radius: 8px; padding: 16px; margin: 16px 0;">
    <p style="margin: 4px 0;"><strong>Cliente:</strong> {{.Doc.ClientName}}</p>
    <p style="margin: 4px 0;"><strong>Status:</strong> {{.Doc.StatusLabel}}</p>
    <p style="margin: 4px 0;"><strong>Data de Início:</strong> {{.StartDate}}</p>
    <p style="margin: 4px 0;"><strong>Data Prevista:</strong> {{.ExpectedDate}}</p>
  </div>

  <h3 style="font-size: 14px;">Progresso: {{.Doc.Progress}}%</h3>
  <div style="background: #e5e7eb; border-radius: 4px; height: 12px; width: 100%;">
    <div style="background: #22c55e; border-radius: 4px; height: 12px; width: {{.Doc.Progress}}%;"></div>
  </div>
  <p style="font-size: 13px; color: #4b5563;">{{.Doc.Approved}} de {{.Doc.Total}} etapas concluídas</p>

  <h3 style="font-size: 14px;">Etapas</h3>
  {{- if .Doc.Stages}}
  <table style="width: 100%; border-collapse: collapse; font-size: 13px;">
    <thead>
      <tr style="background: #f9fafb; text-align: left;">
        <th style="padding: 8px; border-bottom: 1px solid #e5e7eb;">Etapa</th>
        <th style="padding: 8px; border-bottom: 1px solid #e5e7eb;">Status</th>
        <th style="padding: 8px; border-bottom: 1px solid #e5e7eb;">Responsável</th>
      </tr>
    </thead>
    <tbody>
      {{- range .Doc.Stages}}
      <tr>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.Ordinal}}. {{.Title}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">
          <span style="background: {{.Color}}; color: #ffffff; border-radius: 9999px; padding: 2px 8px; font-size: 12px;">{{.StatusLabel}}</span>
        </td>
        <td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.Responsible}}</td>
      </tr>
      {{- end}}
    </tbody>
  </table>
  {{- else}}
  <p style="color: #6b7280;">Nenhuma etapa cadastrada.</p>
  {{- end}}

  <p style="font-size: 12px; color: #6b7280; margin-top: 32px;">
    Este relatório foi gerado automaticamente pelo TaviList em {{.GeneratedDate}} às {{.GeneratedTime}}.
  </p>
</body>
</html>
`))

var projectSignatureTemplate = template.Must(template.New("project-signature").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Confirmação de Recebimento</title></head>
<body style="font-family: Arial, sans-serif; color: #1f2937; max-width: 640px; margin: 0 auto; padding: 24px;">
  <h1 style="font-size: 20px;">Confirmação de Recebimento</h1>
  <p>Olá {{.ClientName}},</p>
  <p>A obra <strong>{{.ProjectName}}</strong> foi concluída. Pedimos que confirme o recebimento assinando pelo link abaixo.</p>
  <p style="text-align: center; margin: 32px 0;">
    <a href="{{.SignURL}}" style="background: #22c55e; color: #ffffff; padding: 12px 24px; border-radius: 6px; text-decoration: none; font-weight: bold;">Confirmar Recebimento</a>
  </p>
  <p style="font-size: 12px; color: #6b7280;">Se o botão não funcionar, copie e cole este endereço no navegador:<br>{{.SignURL}}</p>
  <p style="font-size: 12px; color: #6b7280; margin-top: 32px;">Este é um email automático enviado pelo sistema TaviList.</p>
</body>
</html>
`))

type reportEmailData struct {
	Doc           *report.Document
	StartDate     string
	ExpectedDate  string
	GeneratedDate string
	GeneratedTime string
}

// ReportEmail renders the project report email from a report document.
func ReportEmail(doc *report.Document) (subject, html string, err error) {
	var buf bytes.Buffer
	err = reportTemplate.Execute(&buf, reportEmailData{
		Doc:           doc,
		StartDate:     utils.FormatDate(doc.StartDate),
		ExpectedDate:  utils.FormatDate(doc.ExpectedDate),
		GeneratedDate: utils.FormatDate(doc.GeneratedAt),
		GeneratedTime: utils.FormatTime(doc.GeneratedAt),
	})
	if err != nil {
		return "", "", err
	}
	return "Relatório da Obra: " + doc.ProjectName, buf.String(), nil
}

type projectSignatureData struct {
	ClientName  string
	ProjectName string
	SignURL     string
}

// ProjectSignatureEmail renders the project receipt confirmation invitation.
func ProjectSignatureEmail(clientName, projectName, signURL string) (subject, html string, err error) {
	var buf bytes.Buffer
	err = projectSignatureTemplate.Execute(&buf, projectSignatureData{
		ClientName:  clientName,
		ProjectName: projectName,
		SignURL:     signURL,
	})
	if err != nil {
		return "", "", err
	}
	return "Confirmação de Recebimento - " + projectName, buf.String(), nil
}
