package server

import (
	"context"
	"errors"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/eventhub/meta"
)

const (
	// CodeRequestTimeout marks bare context errors of a request that ran out of time.
	CodeRequestTimeout = "REQUEST_TIMEOUT"

	// CodeFileTooLarge marks request bodies above Config.BodyLimit.
	CodeFileTooLarge = "FILE_TOO_LARGE"

	// codeRouterError marks errors raised by fiber itself, such as unknown routes.
	codeRouterError = "ROUTER_ERROR"
)

//nolint:gochecknoglobals // read-only lookup tables
var (
	statusByType = map[errx.Type]int{
		errx.T_Validation:     fiber.StatusBadRequest,
		errx.T_Authentication: fiber.StatusUnauthorized,
		errx.T_Forbidden:      fiber.StatusForbidden,
		errx.T_NotFound:       fiber.StatusNotFound,
		errx.T_Conflict:       fiber.StatusConflict,
		errx.T_Throttling:     fiber.StatusTooManyRequests,
	}
	typeByStatus = map[int]errx.Type{
		fiber.StatusUnauthorized:    errx.T_Authentication,
		fiber.StatusForbidden:       errx.T_Forbidden,
		fiber.StatusNotFound:        errx.T_NotFound,
		fiber.StatusConflict:        errx.T_Conflict,
		fiber.StatusTooManyRequests: errx.T_Throttling,

		fiber.StatusRequestEntityTooLarge: errx.T_Validation,
	}
	codeByStatus = map[int]string{
		fiber.StatusRequestEntityTooLarge: CodeFileTooLarge,
	}
)

type errorResponse struct {
	TraceID string    `json:"trace_id"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Cause   string            `json:"cause"`
	Fields  map[string]string `json:"fields,omitempty"`
	Trace   string            `json:"trace,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

// WriteErrorResponse renders err as the JSON error envelope with the status of its type
// and returns it as an errx error. With hideDetails the trace and details are omitted.
func WriteErrorResponse(c *fiber.Ctx, err error, hideDetails bool) error {
	e := toErrorX(err)

	body := errorBody{
		Code:    e.Code(),
		Message: messageFor(e),
		Cause:   e.Error(),
		Fields:  e.Fields(),
	}
	if !hideDetails {
		body.Trace = e.Trace()
		body.Details = e.Details()
	}

	_ = c.Status(statusOf(e.Type())).JSON(errorResponse{
		TraceID: meta.Find(c.UserContext(), meta.TraceID),
		Error:   body,
	})
	return e
}

// customErrorHandler renders errors that escaped the middleware chain.
// A response already carrying an error status is left as is.
func customErrorHandler(hideDetails bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}
		_ = WriteErrorResponse(c, err, hideDetails)
		return nil
	}
}

func statusOf(t errx.Type) int {
	if status, ok := statusByType[t]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// toErrorX converts fiber errors into typed errx errors keeping the fiber status in details.
// Other 4xx statuses become validation errors and 5xx ones internal errors. An oversized
// body is reported as FILE_TOO_LARGE.
// A deadline error that no errx error wraps becomes REQUEST_TIMEOUT.
func toErrorX(err error) errx.ErrorX {
	var xe errx.ErrorX
	if !errors.As(err, &xe) && errors.Is(err, context.DeadlineExceeded) {
		return errx.AsErrorX(errx.Wrap(err, errx.WithCode(CodeRequestTimeout), errx.WithType(errx.T_Internal)))
	}

	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return errx.AsErrorX(err)
	}

	t, ok := typeByStatus[fe.Code]
	switch {
	case ok:
	case fe.Code >= fiber.StatusBadRequest && fe.Code < fiber.StatusInternalServerError:
		t = errx.T_Validation
	default:
		t = errx.T_Internal
	}

	code, ok := codeByStatus[fe.Code]
	if !ok {
		code = codeRouterError
	}

	return errx.AsErrorX(errx.New(fe.Message,
		errx.WithCode(code),
		errx.WithType(t),
		errx.WithDetails(errx.D{"fiber_code": fe.Code, "fiber_msg": fe.Message}),
	))
}
