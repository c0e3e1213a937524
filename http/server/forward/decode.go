package forward

import (
	"mime/multipart"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
)

// FormReceiver is implemented by inputs that accept uploaded files.
// The parsed multipart form is handed over before validation.
type FormReceiver interface {
	SetForm(form *multipart.Form)
}

// FormParser parses the multipart body of a request.
type FormParser func(c *fiber.Ctx) (*multipart.Form, error)

func defaultFormParser(c *fiber.Ctx) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errx.Wrap(err, errx.WithType(errx.T_Validation), errx.WithCode(codeInvalidFormBody))
	}
	return form, nil
}

// newRequest allocates the input struct I points to.
func newRequest[I any]() (I, error) {
	var req I

	reqType := reflect.TypeOf((*I)(nil)).Elem()
	if reqType.Kind() != reflect.Pointer || reqType.Elem().Kind() != reflect.Struct {
		return req, errx.New("input type I must be a pointer to a struct")
	}

	return reflect.New(reqType.Elem()).Interface().(I), nil //nolint:errcheck,forcetypeassert // checked above
}

func hasBody(method string) bool {
	return method == fiber.MethodPost || method == fiber.MethodPut || method == fiber.MethodPatch
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// decodeBody decodes a JSON or multipart body into req.
func decodeBody[I any](c *fiber.Ctx, req I, parseForm FormParser) error {
	if isMultipart(c) {
		form, err := parseForm(c)
		if err != nil {
			return errx.Wrap(err)
		}
		if r, ok := any(req).(FormReceiver); ok {
			r.SetForm(form)
		}
		if err = c.BodyParser(req); err != nil {
			return errx.Wrap(err, errx.WithType(errx.T_Validation), errx.WithCode(codeInvalidFormBody))
		}
		return nil
	}

	if len(c.Body()) == 0 {
		return nil
	}

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return errx.New(
			"content type must be application/json or multipart/form-data",
			errx.WithType(errx.T_Validation),
			errx.WithCode(codeInvalidContentType),
		)
	}

	if err := c.BodyParser(req); err != nil {
		return errx.Wrap(err, errx.WithType(errx.T_Validation), errx.WithCode(codeInvalidJSONBody))
	}
	return nil
}

func decodeQuery[I any](c *fiber.Ctx, req I) error {
	if len(c.Queries()) == 0 {
		return nil
	}

	if err := c.QueryParser(req); err != nil {
		return errx.Wrap(err, errx.WithType(errx.T_Validation), errx.WithCode(codeInvalidQueryParams))
	}
	return nil
}

func decodePath[I any](c *fiber.Ctx, req I) error {
	if len(c.Route().Params) == 0 {
		return nil
	}

	if err := c.ParamsParser(req); err != nil {
		return errx.Wrap(err, errx.WithType(errx.T_Validation), errx.WithCode(codeInvalidPathParams))
	}
	return nil
}
