package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/challenge-hub/backend/internal/logging"
	"github.com/challenge-hub/backend/internal/model"
	"github.com/challenge-hub/backend/internal/service"
)

const (
	msgValidationFailed = "La validación falló"
	msgCreationFailed   = "La creación falló"
	msgUpdateFailed     = "Error de validación"
	msgInternal         = "Error interno del servidor"
	msgUnauthorized     = "Unauthorized"
	msgTokenIssue       = "Could not create token"
	msgInvalidRequest   = "invalid request"
)

// resourceKind carries the user-facing labels of one resource.
type resourceKind struct {
	// label names the resource in 404/201/delete messages.
	label string
	// noun names it in generation failures.
	noun string
}

var (
	userKind      = resourceKind{label: "Usuario", noun: "usuario"}
	challengeKind = resourceKind{label: "Challenge", noun: "desafío"}
	videoKind     = resourceKind{label: "Video", noun: "video"}
)

func (k resourceKind) notFound() string         { return k.label + " no encontrado" }
func (k resourceKind) created() string          { return k.label + " creado" }
func (k resourceKind) deleted() string          { return k.label + " eliminado con éxito" }
func (k resourceKind) generationFailed() string { return "No se pudo generar el " + k.noun }

// writeError maps service errors to status codes and envelopes.
// validationMsg is the top-level error used for 422 responses.
func writeError(c *gin.Context, kind resourceKind, validationMsg string, err error) {
	var verr *service.ValidationError
	var genErr *service.GenerationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, model.ValidationErrorResponse{
			Error:  validationMsg,
			Errors: verr.Fields,
		})
	case errors.As(err, &genErr):
		c.JSON(http.StatusInternalServerError, model.GenerationErrorResponse{
			Error:  kind.generationFailed(),
			Errors: rawErrors(genErr.Raw),
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: kind.notFound()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: msgUnauthorized})
	case errors.Is(err, service.ErrTokenIssue):
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("token issue failed")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: msgTokenIssue})
	default:
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: msgInternal})
	}
}

// rawErrors renders an upstream body: JSON as-is, anything else as a string,
// and no body as an empty list.
func rawErrors(raw []byte) any {
	if len(raw) == 0 {
		return []any{}
	}
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	return string(raw)
}

// bindJSON decodes the request body into dst. An empty body decodes as {}.
// Malformed JSON answers 400; a string field holding any other JSON type
// answers 422 with validationMsg.
func bindJSON(c *gin.Context, dst any, validationMsg string) bool {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidRequest})
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidRequest})
		return false
	}
	if violations := typeViolations(dst, fields); len(violations) > 0 {
		c.JSON(http.StatusUnprocessableEntity, model.ValidationErrorResponse{
			Error:  validationMsg,
			Errors: violations,
		})
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidRequest})
		return false
	}
	return true
}

// typeViolations reports the string fields of dst whose JSON value is
// neither a string nor null. Keys match case-insensitively, like the decoder.
func typeViolations(dst any, fields map[string]json.RawMessage) map[string][]string {
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var violations map[string][]string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if ft.Kind() != reflect.String || name == "" || name == "-" {
			continue
		}
		for key, raw := range fields {
			if !strings.EqualFold(key, name) || isStringOrNull(raw) {
				continue
			}
			if violations == nil {
				violations = make(map[string][]string)
			}
			violations[name] = []string{fmt.Sprintf("The %s must be a string.", name)}
		}
	}
	return violations
}

func isStringOrNull(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	return len(v) > 0 && (v[0] == '"' || bytes.Equal(v, []byte("null")))
}

// resourceID parses the :id path parameter. Anything that is not a positive
// integer cannot name a record and answers 404.
func resourceID(c *gin.Context, kind resourceKind) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: kind.notFound()})
		return 0, false
	}
	return id, true
}

// pageParams reads page and per_page. Missing or non-numeric values fall
// back to the defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	return page, perPage
}

// createResource dispatches on the creation type. Manual creates answer with
// an acknowledgement, auto creates with the generated record.
func createResource[T any](c *gin.Context, kind resourceKind, createType string, manual func() error, auto func() (*T, error)) {
	if err := service.CheckCreateType(createType); err != nil {
		writeError(c, kind, msgCreationFailed, err)
		return
	}

	if createType == model.CreateTypeAuto {
		item, err := auto()
		if err != nil {
			writeError(c, kind, msgCreationFailed, err)
			return
		}
		c.JSON(http.StatusCreated, item)
		return
	}

	if err := manual(); err != nil {
		writeError(c, kind, msgCreationFailed, err)
		return
	}
	c.JSON(http.StatusCreated, model.CreatedResponse{Response: kind.created(), Errors: []string{}})
}
