package http

import (
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"desc"`
	Status      *string `json:"status"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"desc"`
	Status      *string `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *HTTPServer) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), callerID(c), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		s.writeError(c, err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *HTTPServer) listTasks(c *gin.Context) {
	list, err := s.tasks.List(c.Request.Context(), callerID(c))
	if err != nil {
		s.writeError(c, err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) getTask(c *gin.Context) {
	task, err := s.tasks.Get(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *HTTPServer) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), callerID(c), c.Param("id"), services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		s.writeError(c, err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *HTTPServer) setTaskStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	task, err := s.tasks.SetStatus(c.Request.Context(), callerID(c), c.Param("id"), req.Status)
	if err != nil {
		s.writeError(c, err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *HTTPServer) deleteTask(c *gin.Context) {
	task, err := s.tasks.Delete(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err, msgTaskNotFound)
		return
	}
	c.JSON(http.StatusOK, task)
}
