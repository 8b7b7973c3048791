package signature

import (
	"encoding/base64"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hubtav/tavlist/pkg/apperr"
)

const DefaultMaxImageBytes = 500 * 1024

var (
	signerNamePattern = regexp.MustCompile(`^[A-Za-zÀ-ÿ \-.']{2,100}$`)
	dataURLPattern    = regexp.MustCompile(`^data:(image/[a-z]+);base64,(.+)$`)

	// only formats the PDF report can embed
	imageExtensions = map[string]string{
		"image/png":  "png",
		"image/jpeg": "jpg",
		"image/jpg":  "jpg",
	}
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("signer_name", func(fl validator.FieldLevel) bool {
		return signerNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// cleanSignerName trims name and checks it against the allowlist.
func (s *Service) cleanSignerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := s.validate.Var(name, "required,signer_name"); err != nil {
		return "", apperr.Validation("Nome inválido: use de 2 a 100 letras, espaços, apóstrofo, hífen ou ponto")
	}
	return name, nil
}

type decodedImage struct {
	Data        []byte
	ContentType string
	Ext         string
}

// decodeDataURL accepts data:image/{png,jpeg};base64 payloads no larger than maxBytes
// whose content is actually an image.
func decodeDataURL(dataURL string, maxBytes int) (*decodedImage, error) {
	m := dataURLPattern.FindStringSubmatch(strings.TrimSpace(dataURL))
	if m == nil {
		return nil, apperr.Validation("Assinatura inválida: envie uma imagem em data URL")
	}
	declared := m[1]
	if _, ok := imageExtensions[declared]; !ok {
		return nil, apperr.Validation("Formato de imagem não suportado: %s", declared)
	}
	if base64.StdEncoding.DecodedLen(len(m[2])) > maxBytes+3 {
		return nil, apperr.Validation("A imagem da assinatura excede %d KB", maxBytes/1024)
	}
	data, err := base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return nil, apperr.Validation("Assinatura inválida: base64 malformado")
	}
	if len(data) == 0 {
		return nil, apperr.Validation("Assinatura vazia")
	}
	if len(data) > maxBytes {
		return nil, apperr.Validation("A imagem da assinatura excede %d KB", maxBytes/1024)
	}
	sniffed := http.DetectContentType(data)
	ext, ok := imageExtensions[sniffed]
	if !ok {
		return nil, apperr.Validation("O conteúdo enviado não é uma imagem")
	}
	return &decodedImage{Data: data, ContentType: sniffed, Ext: ext}, nil
}
