package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
)

var (
	errEmailTaken         = errors.New("Email already registered")
	errInvalidCredentials = errors.New("Invalid credentials")
	errTaskNotFound       = errors.New("Task not found")
)

type handler struct {
	store  *Store
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

func respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

// respondDetail writes the {"detail": ...} error shape the real backend uses.
func respondDetail(ctx *fasthttp.RequestCtx, status int, detail interface{}) {
	respondJSON(ctx, status, map[string]interface{}{"detail": detail})
}

// respondFailure writes the {"status":"error","code":...,"error":...} envelope
// used for server-side failures.
func (h *handler) respondFailure(ctx *fasthttp.RequestCtx, status int, code, message string, err error) {
	env := transport.NewError(code, message, nil)
	h.logger.Error("request failed",
		zap.ByteString("path", ctx.Path()),
		zap.String("response", env.String()),
		zap.Error(err))
	respondJSON(ctx, status, env)
}

func validationDetail(field, msg string) []map[string]interface{} {
	return []map[string]interface{}{{
		"loc":  []string{"body", field},
		"msg":  msg,
		"type": "value_error",
	}}
}

// @Router /health [get]
func (h *handler) Health(ctx *fasthttp.RequestCtx) {
	respondJSON(ctx, http.StatusOK, transport.NewSuccess(map[string]interface{}{
		"timestamp": time.Now().UTC(),
	}, nil))
}

// @Router /api/v1/auth/register [post]
func (h *handler) Register(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseCredentials(ctx)
	if !ok {
		return
	}
	acc, err := h.store.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			respondDetail(ctx, http.StatusBadRequest, err.Error())
			return
		}
		h.respondFailure(ctx, http.StatusInternalServerError, "REGISTER_FAILED", "Could not create account", err)
		return
	}
	h.respondToken(ctx, http.StatusCreated, acc)
}

// @Router /api/v1/auth/login [post]
func (h *handler) Login(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseCredentials(ctx)
	if !ok {
		return
	}
	acc, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		respondDetail(ctx, http.StatusUnauthorized, err.Error())
		return
	}
	h.respondToken(ctx, http.StatusOK, acc)
}

func (h *handler) parseCredentials(ctx *fasthttp.RequestCtx) (transport.Credentials, bool) {
	var req transport.Credentials
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondDetail(ctx, http.StatusUnprocessableEntity, validationDetail("body", "invalid JSON"))
		return req, false
	}
	if strings.TrimSpace(req.Email) == "" {
		respondDetail(ctx, http.StatusUnprocessableEntity, validationDetail("email", "field required"))
		return req, false
	}
	if req.Password == "" {
		respondDetail(ctx, http.StatusUnprocessableEntity, validationDetail("password", "field required"))
		return req, false
	}
	return req, true
}

func (h *handler) respondToken(ctx *fasthttp.RequestCtx, status int, acc *account) {
	token, err := issueToken(h.secret, h.ttl, acc.ID, acc.Email)
	if err != nil {
		h.respondFailure(ctx, http.StatusInternalServerError, "TOKEN_FAILED", "Could not issue token", err)
		return
	}
	respondJSON(ctx, status, transport.NewSuccess(map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    acc.ID,
			"email": acc.Email,
		},
	}, nil))
}

func issueToken(secret []byte, ttl time.Duration, userID int64, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"sub":     strconv.FormatInt(userID, 10),
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// @Router /api/tasks [get]
func (h *handler) ListTasks(ctx *fasthttp.RequestCtx) {
	respondJSON(ctx, http.StatusOK, h.store.ListTasks(ownerID(ctx)))
}

// ListTasksWrapped answers with the {"data": [...]} variant of the list shape.
func (h *handler) ListTasksWrapped(ctx *fasthttp.RequestCtx) {
	respondJSON(ctx, http.StatusOK, transport.NewSuccess(h.store.ListTasks(ownerID(ctx)), nil))
}

// @Router /api/tasks [post]
func (h *handler) CreateTask(ctx *fasthttp.RequestCtx) {
	req, ok := parseTask(ctx)
	if !ok {
		return
	}
	task := h.store.CreateTask(ownerID(ctx), req.Title, req.Description)
	respondJSON(ctx, http.StatusOK, task)
}

// @Router /api/tasks/{id} [put]
func (h *handler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, ok := taskID(ctx)
	if !ok {
		return
	}
	req, ok := parseTask(ctx)
	if !ok {
		return
	}
	task, err := h.store.UpdateTask(ownerID(ctx), id, req.Title, req.Description, req.Completed)
	if err != nil {
		respondDetail(ctx, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(ctx, http.StatusOK, task)
}

// @Router /api/tasks/{id} [delete]
func (h *handler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id, ok := taskID(ctx)
	if !ok {
		return
	}
	if err := h.store.DeleteTask(ownerID(ctx), id); err != nil {
		respondDetail(ctx, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(ctx, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func parseTask(ctx *fasthttp.RequestCtx) (transport.TaskRequest, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondDetail(ctx, http.StatusUnprocessableEntity, validationDetail("body", "invalid JSON"))
		return req, false
	}
	title := strings.TrimSpace(req.Title)
	switch {
	case title == "":
		respondDetail(ctx, http.StatusUnprocessableEntity, validationDetail("title", "Title is required"))
		return req, false
	case utf8.RuneCountInString(req.Title) > 200:
		respondDetail(ctx, http.StatusUnprocessableEntity, validationDetail("title", "Title must be 200 characters or less"))
		return req, false
	case utf8.RuneCountInString(req.Description) > 1000:
		respondDetail(ctx, http.StatusUnprocessableEntity, validationDetail("description", "Description must be 1000 characters or less"))
		return req, false
	}
	return req, true
}

func taskID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondDetail(ctx, http.StatusUnprocessableEntity, validationDetail("id", "invalid task id"))
		return 0, false
	}
	return id, true
}

func ownerID(ctx *fasthttp.RequestCtx) int64 {
	id, _ := ctx.UserValue(userIDKey).(int64)
	return id
}
