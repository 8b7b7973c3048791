package resputil

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/hubtav/tavlist/pkg/apperr"
)

type Response[T any] struct {
	Code ErrorCode `json:"code"`
	Data T         `json:"data"`
	Msg  string    `json:"msg"`
}

func wrapResponse(c *gin.Context, httpCode int, msg string, data any, code ErrorCode) {
	c.JSON(httpCode, Response[any]{
		Code: code,
		Data: data,
		Msg:  msg,
	})
}

func Success(c *gin.Context, data any) {
	wrapResponse(c, http.StatusOK, "", data, OK)
}

func Error(c *gin.Context, msg string, errorCode ErrorCode) {
	wrapResponse(c, http.StatusInternalServerError, msg, nil, errorCode)
}

func BadRequestError(c *gin.Context, msg string) {
	wrapResponse(c, http.StatusBadRequest, msg, nil, InvalidRequest)
}

func HTTPError(c *gin.Context, httpCode int, msg string, errorCode ErrorCode) {
	wrapResponse(c, httpCode, msg, nil, errorCode)
}

// statusOf maps an application error kind to its HTTP status and error code.
func statusOf(err error) (int, ErrorCode) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, InvalidRequest
	case errors.Is(err, apperr.ErrPermission):
		return http.StatusForbidden, UserNotAllowed
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, NotFound
	case errors.Is(err, apperr.ErrAlreadySigned):
		return http.StatusConflict, AlreadySigned
	case errors.Is(err, apperr.ErrInvalidTransition):
		return http.StatusConflict, InvalidTransition
	case errors.Is(err, apperr.ErrGateway):
		return http.StatusBadGateway, GatewayFailed
	case errors.Is(err, apperr.ErrStorage):
		return http.StatusBadGateway, StorageFailed
	case errors.Is(err, apperr.ErrChannelUnavailable):
		return http.StatusServiceUnavailable, ChannelUnavailable
	default:
		return http.StatusInternalServerError, NotSpecified
	}
}

// HandleError writes err with the status its kind maps to. Provider payloads of
// gateway errors are returned in data. Server-side failures go to Sentry.
func HandleError(c *gin.Context, err error) {
	httpCode, code := statusOf(err)
	if httpCode >= http.StatusInternalServerError || code == StorageFailed {
		klog.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		captureException(c, err, code)
	}
	var data any
	if code == GatewayFailed {
		data = apperr.DetailsOf(err)
	}
	wrapResponse(c, httpCode, apperr.Message(err), data, code)
}

func captureException(c *gin.Context, err error, code ErrorCode) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("route", c.FullPath())
		scope.SetTag("method", c.Request.Method)
		scope.SetExtra("code", int(code))
		hub.CaptureException(err)
	})
}
