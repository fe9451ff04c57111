// Package tasks implements the record CRUD the auth service protects.
package tasks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mpetrov/tasknest/internal/gormw"
	"github.com/mpetrov/tasknest/internal/models"
	"github.com/mpetrov/tasknest/internal/storage"
)

var (
	logger = log.With().Str("component", "tasks").Logger()
)

type Handlers struct {
	db *gormw.DB
}

func RegisterHandlers(rg *gin.RouterGroup, db *gormw.DB) {
	h := &Handlers{db: db}

	rg.GET("", h.handleList)
	rg.POST("", h.handleCreate)
	rg.GET("/:id", h.handleGet)
	rg.PATCH("/:id", h.handleUpdate)
	rg.DELETE("/:id", h.handleDelete)
}

type taskResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Done bool   `json:"done"`
}

func toResponse(t *models.Task) *taskResponse {
	return &taskResponse{ID: t.ID, Name: t.Name, Done: t.Done}
}

func (h *Handlers) handleList(c *gin.Context) {
	all, err := storage.ListTasks(h.db)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list tasks")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	resp := make([]*taskResponse, 0, len(all))
	for i := range all {
		resp = append(resp, toResponse(&all[i]))
	}
	c.JSON(http.StatusOK, resp)
}

type createTaskParams struct {
	Name string `json:"name" binding:"required,max=500"`
	Done bool   `json:"done"`
}

func (h *Handlers) handleCreate(c *gin.Context) {
	params := &createTaskParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed"})
		return
	}

	task := &models.Task{Name: params.Name, Done: params.Done}
	if err := storage.CreateTask(h.db, task); err != nil {
		logger.Error().Err(err).Msg("Failed to create task")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, toResponse(task))
}

func (h *Handlers) handleGet(c *gin.Context) {
	task, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toResponse(task))
}

type updateTaskParams struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=500"`
	Done *bool   `json:"done"`
}

func (h *Handlers) handleUpdate(c *gin.Context) {
	params := &updateTaskParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Validation failed"})
		return
	}

	task, ok := h.lookup(c)
	if !ok {
		return
	}

	if params.Name != nil {
		task.Name = *params.Name
	}
	if params.Done != nil {
		task.Done = *params.Done
	}

	if err := storage.UpdateTask(h.db, task); err != nil {
		logger.Error().Err(err).Msg("Failed to update task")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toResponse(task))
}

func (h *Handlers) handleDelete(c *gin.Context) {
	task, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := storage.DeleteTask(h.db, task.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to delete task")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// lookup resolves the :id path param to a task, writing the error response
// itself when it cannot.
func (h *Handlers) lookup(c *gin.Context) (*models.Task, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid task id"})
		return nil, false
	}

	task, err := storage.GetTaskByID(h.db, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return nil, false
		}
		logger.Error().Err(err).Msg("Failed to get task")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return nil, false
	}

	return task, true
}
