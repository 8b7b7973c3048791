package resputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubtav/tavlist/pkg/apperr"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
		msg    string
	}{
		{"validation", apperr.Validation("Título é obrigatório"), http.StatusBadRequest, InvalidRequest, "Título é obrigatório"},
		{"permission", apperr.Permission("Sem permissão"), http.StatusForbidden, UserNotAllowed, "Sem permissão"},
		{"not found", apperr.NotFound("Etapa não encontrada"), http.StatusNotFound, NotFound, "Etapa não encontrada"},
		{"signed", apperr.AlreadySigned("Esta etapa já foi assinada"), http.StatusConflict, AlreadySigned, "Esta etapa já foi assinada"},
		{"transition", &apperr.TransitionError{From: "pendente", To: "aprovada"}, http.StatusConflict, InvalidTransition,
			"transição de status inválida: pendente -> aprovada"},
		{"channel", apperr.ChannelUnavailable("WhatsApp desconectado"), http.StatusServiceUnavailable, ChannelUnavailable, "WhatsApp desconectado"},
		{"storage", apperr.Storage("Erro ao enviar arquivo", errors.New("bucket")), http.StatusBadGateway, StorageFailed, "Erro ao enviar arquivo"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, NotSpecified, "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)

			HandleError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var resp Response[any]
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, tc.msg, resp.Msg)
		})
	}
}

func TestHandleGatewayErrorCarriesPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", http.NoBody)

	payload := json.RawMessage(`{"error":"number not on whatsapp"}`)
	HandleError(c, apperr.Gateway("Erro ao enviar mensagem via WhatsApp", payload, errors.New("400")))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"code":50201,"data":{"error":"number not on whatsapp"},"msg":"Erro ao enviar mensagem via WhatsApp"}`, w.Body.String())
}
