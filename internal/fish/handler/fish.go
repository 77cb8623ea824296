package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"fishtank/internal/fish/service"
	apperrors "fishtank/pkg/errors"
	httputil "fishtank/pkg/http"
	"fishtank/pkg/logger"
	"fishtank/pkg/model"
	"fishtank/pkg/sanitizer"
)

const (
	ActionGetFish    = "getFish"
	ActionAddFish    = "addFish"
	ActionUpdateFish = "updateFish"
	ActionDeleteFish = "deleteFish"
	ActionNoop       = "noop"

	redacted = "[REDACTED]"
)

// Actions lists every routed action name.
var Actions = []string{ActionGetFish, ActionAddFish, ActionUpdateFish, ActionDeleteFish, ActionNoop}

type FishHandler struct {
	service  service.FishService
	log      *logger.Logger
	diag     *logger.Logger
	basePath string
}

func NewFishHandler(service service.FishService, log, diag *logger.Logger, basePath string) *FishHandler {
	if diag == nil {
		diag = logger.Discard()
	}
	return &FishHandler{
		service:  service,
		log:      log,
		diag:     diag,
		basePath: basePath,
	}
}

type NoopResponse struct {
	Status string       `json:"status"`
	Method string       `json:"method"`
	RC     []string     `json:"rc"`
	Input  model.Fields `json:"input"`
}

func (h *FishHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(h.route(ActionGetFish), h.List)
	router.POST(h.route(ActionAddFish), h.Create)
	router.PUT(h.route(ActionUpdateFish), h.Update)
	router.DELETE(h.route(ActionDeleteFish), h.Delete)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		router.Handle(method, h.route(ActionNoop), h.Noop)
	}
}

func (h *FishHandler) route(action string) string {
	return h.basePath + "/" + action
}

func (h *FishHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fish, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, fish); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FishHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fields, ok := h.decode(w, r, "Create")
	if !ok {
		return
	}
	h.called(ActionAddFish, fields)

	id, err := h.service.Create(r.Context(), fields)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	h.succeeded(ActionAddFish, fields)

	if err := httputil.WriteCreated(w, httputil.StatusResponse{
		Status: fmt.Sprintf("New fish %s created", id),
		RoomID: id,
	}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *FishHandler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fields, ok := h.decode(w, r, "Update")
	if !ok {
		return
	}
	h.called(ActionUpdateFish, fields)

	fish, err := h.service.Update(r.Context(), fields)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	h.succeeded(ActionUpdateFish, fields)

	if err := httputil.WriteSuccess(w, httputil.StatusResponse{
		Status: fmt.Sprintf("Fish %s updated", identifier(fields)),
		Info:   fish,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FishHandler) Delete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fields, ok := h.decode(w, r, "Delete")
	if !ok {
		return
	}
	h.called(ActionDeleteFish, fields)

	if err := h.service.Delete(r.Context(), fields); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	h.succeeded(ActionDeleteFish, fields)

	if err := httputil.WriteSuccess(w, httputil.StatusResponse{
		Status: fmt.Sprintf("Fish %s deleted", identifier(fields)),
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteSuccess", "error", err)
	}
}

// Noop echoes the request back.
func (h *FishHandler) Noop(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fields, ok := h.decode(w, r, "Noop")
	if !ok {
		return
	}
	h.called(ActionNoop, fields)

	if err := httputil.WriteSuccess(w, NoopResponse{
		Status: ActionNoop,
		Method: r.Method,
		RC:     []string{},
		Input:  fields,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Noop", "operation", "WriteSuccess", "error", err)
	}
}

// decode reads the body as a JSON object. An empty body is an empty object.
func (h *FishHandler) decode(w http.ResponseWriter, r *http.Request, name string) (model.Fields, bool) {
	fields := model.Fields{}
	if r.Body == nil || r.Method == http.MethodGet {
		return fields, true
	}

	err := json.NewDecoder(r.Body).Decode(&fields)
	if err == nil || errors.Is(err, io.EOF) {
		if fields == nil {
			fields = model.Fields{}
		}
		return fields, true
	}

	h.log.Warn("Invalid request body", "handler", name, "error", err)
	if writeErr := httputil.WriteError(w, apperrors.Wrap(err, apperrors.CodeInvalidInput, "Invalid request body", http.StatusBadRequest)); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
	return nil, false
}

func identifier(fields model.Fields) string {
	return sanitizer.SanitizeName(fields.String(model.FieldName))
}

func (h *FishHandler) called(action string, fields model.Fields) {
	h.diag.Info(fmt.Sprintf("%s called with %s", action, redact(fields)))
}

func (h *FishHandler) succeeded(action string, fields model.Fields) {
	h.diag.Info(fmt.Sprintf("%s succeeded for %s", action, redact(fields)))
}

// redact renders fields as JSON with any apiKey masked.
func redact(fields model.Fields) string {
	if fields.Has(model.FieldAPIKey) {
		fields = fields.Clone()
		fields[model.FieldAPIKey] = redacted
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(fields))
	}
	return string(data)
}

// NotFound answers unrouted requests with a JSON 404.
func NotFound(log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := httputil.WriteError(w, apperrors.NotFound("Route "+r.Method+" "+r.URL.Path)); err != nil {
			log.Error("failed to write error response", "handler", "NotFound", "operation", "WriteError", "error", err)
		}
	})
}
