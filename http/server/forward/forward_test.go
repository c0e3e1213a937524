package forward_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/eventhub/http/server"
	"github.com/rise-and-shine/eventhub/http/server/forward"
	"github.com/rise-and-shine/eventhub/http/server/middleware"
	"github.com/rise-and-shine/eventhub/logger"
)

type echoInput struct {
	ID    string `params:"id"    json:"-"     validate:"omitempty,uuid"`
	Title string `json:"title"   form:"title" query:"title" validate:"required,notblank"`
	Files int    `json:"-"       form:"-"     query:"-"`
}

func (in *echoInput) SetForm(form *multipart.Form) {
	in.Files = len(form.File["image"])
}

type echoOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Files int    `json:"files"`
}

type echoAction struct {
	err   error
	calls int
}

func (a *echoAction) OperationID() string { return "echo" }

func (a *echoAction) Execute(_ context.Context, in *echoInput) (*echoOutput, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &echoOutput{ID: in.ID, Title: in.Title, Files: in.Files}, nil
}

func newApp(uc *echoAction, opts ...forward.Option) *fiber.App {
	srv := server.NewHTTPServer(server.Config{Host: "localhost", Port: 0, BodyLimit: 1 << 20}, []server.Middleware{
		middleware.NewErrorHandlerMW(false),
	})
	opts = append(opts, forward.WithLogger(logger.Nop()))
	srv.RegisterRouter(func(r fiber.Router) {
		r.Get("/items", forward.ToUserAction(uc, opts...))
		r.Post("/items", forward.ToUserAction(uc, append(opts, forward.WithStatus(fiber.StatusCreated))...))
		r.Put("/items/:id", forward.ToUserAction(uc, opts...))
		r.Delete("/items/:id", forward.ToUserAction(uc, append(opts, forward.WithStatus(fiber.StatusNoContent))...))
		r.Options("/items", forward.ToUserAction(uc, opts...))
	})
	return srv.App()
}

func multipartBody(t *testing.T, title string, withFile bool) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", title))
	if withFile {
		fw, err := w.CreateFormFile("image", "cat.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("png"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func decodeError(t *testing.T, resp *http.Response) (string, map[string]string) {
	t.Helper()
	var body struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code, body.Error.Fields
}

func TestToUserActionDecoding(t *testing.T) {
	const id = "0d9e4d9a-54a5-4c7e-9a55-9b7a3f2c1d02"

	tests := []struct {
		name       string
		method     string
		target     string
		body       func(t *testing.T) (io.Reader, string)
		wantStatus int
		want       echoOutput
	}{
		{
			name:       "query on GET",
			method:     http.MethodGet,
			target:     "/items?title=party",
			wantStatus: fiber.StatusOK,
			want:       echoOutput{Title: "party"},
		},
		{
			name:   "json body on POST",
			method: http.MethodPost,
			target: "/items",
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader(`{"title":"launch"}`), fiber.MIMEApplicationJSON
			},
			wantStatus: fiber.StatusCreated,
			want:       echoOutput{Title: "launch"},
		},
		{
			name:   "multipart body with path param",
			method: http.MethodPut,
			target: "/items/" + id,
			body: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, "renamed", true)
			},
			wantStatus: fiber.StatusOK,
			want:       echoOutput{ID: id, Title: "renamed", Files: 1},
		},
		{
			name:   "multipart body without file",
			method: http.MethodPut,
			target: "/items/" + id,
			body: func(t *testing.T) (io.Reader, string) {
				return multipartBody(t, "renamed", false)
			},
			wantStatus: fiber.StatusOK,
			want:       echoOutput{ID: id, Title: "renamed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(&echoAction{})

			var body io.Reader
			contentType := ""
			if tt.body != nil {
				body, contentType = tt.body(t)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if contentType != "" {
				req.Header.Set(fiber.HeaderContentType, contentType)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.wantStatus, resp.StatusCode)
			var got echoOutput
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToUserActionNoContent(t *testing.T) {
	uc := &echoAction{}
	app := newApp(uc)

	req := httptest.NewRequest(http.MethodDelete, "/items/0d9e4d9a-54a5-4c7e-9a55-9b7a3f2c1d02?title=x", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, uc.calls)
}

func TestToUserActionRejects(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		target      string
		body        string
		contentType string
		wantStatus  int
		wantCode    string
		wantField   string
	}{
		{
			name:       "validation failure",
			method:     http.MethodGet,
			target:     "/items?title=%20",
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
			wantField:  "title",
		},
		{
			name:        "bad path param",
			method:      http.MethodPut,
			target:      "/items/not-a-uuid",
			body:        `{"title":"x"}`,
			contentType: fiber.MIMEApplicationJSON,
			wantStatus:  fiber.StatusBadRequest,
			wantCode:    "VALIDATION_FAILED",
			wantField:   "id",
		},
		{
			name:        "unsupported content type",
			method:      http.MethodPost,
			target:      "/items",
			body:        "title=x",
			contentType: fiber.MIMEApplicationForm,
			wantStatus:  fiber.StatusBadRequest,
			wantCode:    "INVALID_CONTENT_TYPE",
		},
		{
			name:        "broken json",
			method:      http.MethodPost,
			target:      "/items",
			body:        `{"title":`,
			contentType: fiber.MIMEApplicationJSON,
			wantStatus:  fiber.StatusBadRequest,
			wantCode:    "INVALID_JSON_BODY",
		},
		{
			name:        "truncated multipart",
			method:      http.MethodPost,
			target:      "/items",
			body:        "--xyz\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\nparty",
			contentType: "multipart/form-data; boundary=xyz",
			wantStatus:  fiber.StatusBadRequest,
			wantCode:    "INVALID_FORM_BODY",
		},
		{
			name:       "unsupported method",
			method:     http.MethodOptions,
			target:     "/items",
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "INVALID_HTTP_METHOD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &echoAction{}
			app := newApp(uc)

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.contentType != "" {
				req.Header.Set(fiber.HeaderContentType, tt.contentType)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			code, fields := decodeError(t, resp)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantField != "" {
				assert.Contains(t, fields, tt.wantField)
			}
			assert.Zero(t, uc.calls)
		})
	}
}

func TestToUserActionCustomFormParser(t *testing.T) {
	parser := func(c *fiber.Ctx) (*multipart.Form, error) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, errx.Wrap(err, errx.WithCode("MALFORMED_UPLOAD"), errx.WithType(errx.T_Validation))
		}
		return form, nil
	}
	app := newApp(&echoAction{}, forward.WithFormParser(parser))

	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader("--xyz\r\n"))
	req.Header.Set(fiber.HeaderContentType, "multipart/form-data; boundary=xyz")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	code, _ := decodeError(t, resp)
	assert.Equal(t, "MALFORMED_UPLOAD", code)
}

func TestToUserActionUseCaseError(t *testing.T) {
	uc := &echoAction{err: errx.New("gone", errx.WithCode("EVENT_NOT_FOUND"), errx.WithType(errx.T_NotFound))}
	app := newApp(uc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?title=x", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	code, _ := decodeError(t, resp)
	assert.Equal(t, "EVENT_NOT_FOUND", code)
}
