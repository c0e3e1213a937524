package forward

import (
	"fmt"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/eventhub/logger"
	"github.com/rise-and-shine/eventhub/mask"
	"github.com/rise-and-shine/eventhub/ucdef"
	"github.com/rise-and-shine/eventhub/val"
)

const maxLogAllowedSize = 8 << 10 // 8KB

type options struct {
	status    int
	parseForm FormParser
	log       logger.Logger
}

// Option configures a forwarded handler.
type Option func(*options)

// WithStatus sets the success status code. 204 sends no body.
func WithStatus(code int) Option {
	return func(o *options) { o.status = code }
}

// WithFormParser replaces the multipart parser, e.g. to map its errors to domain codes.
func WithFormParser(p FormParser) Option {
	return func(o *options) { o.parseForm = p }
}

// WithLogger sets the logger. The global logger is used by default.
func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// ToUserAction forwards a request to a user action.
// I is the use case input and must be a pointer to a struct; O is its output.
func ToUserAction[I, O any](uc ucdef.UserAction[I, O], opts ...Option) fiber.Handler {
	o := options{status: fiber.StatusOK, parseForm: defaultFormParser}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *fiber.Ctx) error {
		req, err := newRequest[I]()
		if err != nil {
			return errx.Wrap(err)
		}

		switch {
		case c.Method() == fiber.MethodGet || c.Method() == fiber.MethodDelete:
			err = decodeQuery(c, req)
		case hasBody(c.Method()):
			err = decodeBody(c, req, o.parseForm)
		default:
			err = errx.New(
				"unsupported http method",
				errx.WithType(errx.T_Validation),
				errx.WithCode(codeInvalidHTTPMethod),
				errx.WithDetails(errx.D{"received_http_method": c.Method()}),
			)
		}
		if err != nil {
			return errx.Wrap(err)
		}

		// path params win over body and query fields of the same name
		if err = decodePath(c, req); err != nil {
			return errx.Wrap(err)
		}

		log := o.log
		if log == nil {
			log = logger.Global()
		}
		log = log.Named("http.handler").
			WithContext(c.UserContext()).
			With("operation_id", uc.OperationID())

		// multipart files are summarized by mask, so only raw JSON bodies can be too large
		if isMultipart(c) || len(c.Body()) <= maxLogAllowedSize {
			log = log.With("request_body", mask.StructToOrdMap(req))
		} else {
			log = log.With("request_body", fmt.Sprintf("too large for logging: %d bytes", len(c.Body())))
		}

		if err = val.ValidateSchema(req); err != nil {
			log.Warnx(err)
			return errx.Wrap(err)
		}

		resp, err := uc.Execute(c.UserContext(), req)
		if err != nil {
			log.Errorx(err)
			return errx.Wrap(err)
		}

		if o.status == fiber.StatusNoContent {
			log.Debug("")
			return c.SendStatus(fiber.StatusNoContent)
		}

		size, err := writeJSON(c, o.status, resp)
		if err != nil {
			log.Errorx(err)
			return errx.Wrap(err)
		}

		if size <= maxLogAllowedSize {
			log = log.With("response_body", mask.StructToOrdMap(resp))
		} else {
			log = log.With("response_body", fmt.Sprintf("too large for logging: %d bytes", size))
		}

		log.Debug("")
		return nil
	}
}

func writeJSON(c *fiber.Ctx, status int, data any) (int, error) {
	raw, err := c.App().Config().JSONEncoder(data)
	if err != nil {
		return 0, errx.Wrap(err)
	}

	c.Status(status)
	c.Response().SetBodyRaw(raw)
	c.Response().Header.SetContentType(fiber.MIMEApplicationJSON)
	return len(raw), nil
}
