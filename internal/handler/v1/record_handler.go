package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RecordService is what the generic handler needs from a service.
type RecordService[T any, K comparable] interface {
	List(ctx context.Context) ([]*T, error)
	Get(ctx context.Context, id K) (*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Delete(ctx context.Context, id K) error
	DeleteAll(ctx context.Context) error
}

// RecordHandler serves list, get, create, delete and delete-all for one
// resource. Collections live under the plural path, creation under the
// singular one.
type RecordHandler[T any, K comparable] struct {
	svc          RecordService[T, K]
	param        string
	parseKey     func(string) (K, error)
	createStatus int
}

func NewRecordHandler[T any, K comparable](svc RecordService[T, K], param string, parseKey func(string) (K, error), createStatus int) *RecordHandler[T, K] {
	return &RecordHandler[T, K]{svc: svc, param: param, parseKey: parseKey, createStatus: createStatus}
}

func (h *RecordHandler[T, K]) Register(api *gin.RouterGroup, plural, singular string) {
	api.GET("/"+plural, h.List)
	api.GET("/"+plural+"/:"+h.param, h.Get)
	api.POST("/"+singular, h.Create)
	api.DELETE("/"+plural+"/:"+h.param, h.Delete)
	api.DELETE("/"+plural, h.DeleteAll)
}

// List answers 204 with no body when there is nothing stored.
func (h *RecordHandler[T, K]) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if len(rows) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *RecordHandler[T, K]) Get(c *gin.Context) {
	id, ok := h.key(c)
	if !ok {
		return
	}
	row, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *RecordHandler[T, K]) Create(c *gin.Context) {
	var in T
	if !bindJSON(c, &in) {
		return
	}
	created, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(h.createStatus, created)
}

func (h *RecordHandler[T, K]) Delete(c *gin.Context) {
	id, ok := h.key(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *RecordHandler[T, K]) DeleteAll(c *gin.Context) {
	if err := h.svc.DeleteAll(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *RecordHandler[T, K]) key(c *gin.Context) (K, bool) {
	id, err := h.parseKey(c.Param(h.param))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+h.param)
		return id, false
	}
	return id, true
}
