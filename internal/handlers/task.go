package handlers

import (
	"net/http"

	dom "github.com/cyberpompier/lumina/internal/domain"
	"github.com/cyberpompier/lumina/internal/dto"
	"github.com/cyberpompier/lumina/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List godoc
// @Summary      List all tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	respondList(c, list, err)
}

// Create godoc
// @Summary      Add a task
// @Description  Prepends a task. A blank title is ignored and the list is returned unchanged.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      200   {object}  dto.ListTasksResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.svc.Add(c.Request.Context(), req.Title)
	respondList(c, list, err)
}

// Toggle godoc
// @Summary      Toggle a task's completed flag
// @Description  Unknown ids are ignored.
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id}/toggle [post]
func (h *TaskHandler) Toggle(c *gin.Context) {
	list, err := h.svc.Toggle(c.Request.Context(), c.Param("id"))
	respondList(c, list, err)
}

// Delete godoc
// @Summary      Delete a task
// @Description  Unknown ids are ignored.
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	list, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	respondList(c, list, err)
}

// ClearCompleted godoc
// @Summary      Remove all completed tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks/clear-completed [post]
func (h *TaskHandler) ClearCompleted(c *gin.Context) {
	list, err := h.svc.ClearCompleted(c.Request.Context())
	respondList(c, list, err)
}

func respondList(c *gin.Context, list dom.Collection, err error) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasksToResponse(list))
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}

func tasksToResponse(list dom.Collection) dto.ListTasksResponse {
	items := make([]dto.TaskResponse, len(list))
	for i := range list {
		items[i] = taskToResponse(list[i])
	}
	completed, total := dom.Stats(list)
	return dto.ListTasksResponse{Items: items, Completed: completed, Total: total}
}
