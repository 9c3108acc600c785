package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	FirstName string   `json:"fname"`
	LastName  string   `json:"lname"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Age       *float64 `json:"age"`
}

type loginRequest struct {
	Type         string `json:"type"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	RefreshToken string `json:"refreshToken"`
}

type updateUserRequest struct {
	FirstName *string  `json:"fname"`
	LastName  *string  `json:"lname"`
	Email     *string  `json:"email"`
	Password  *string  `json:"password"`
	Age       *float64 `json:"age"`
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	user, err := s.users.Register(c.Request.Context(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Age:       req.Age,
	})
	if err != nil {
		s.writeError(c, err, msgUserNotFound)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, user)
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	au, err := s.users.Login(c.Request.Context(), services.LoginRequest{
		Type:         services.LoginType(req.Type),
		Email:        req.Email,
		Password:     req.Password,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		// an unknown email is reported like a wrong password
		if errors.Is(err, common.ErrorNotFound) {
			err = common.ErrorUnauthorized
		}
		s.writeError(c, err, msgUserNotFound)
		return
	}

	c.JSON(http.StatusOK, au)
}

func (s *HTTPServer) profile(c *gin.Context) {
	user, err := s.users.Profile(c.Request.Context(), callerID(c))
	if err != nil {
		s.writeError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) listUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *HTTPServer) getUser(c *gin.Context) {
	user, err := s.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c)
		return
	}

	user, err := s.users.Update(c.Request.Context(), callerID(c), c.Param("id"), services.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Age:       req.Age,
	})
	if err != nil {
		s.writeError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) deleteUser(c *gin.Context) {
	user, err := s.users.Delete(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}
