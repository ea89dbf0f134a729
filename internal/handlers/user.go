package handlers

import (
	"bytes"
	"errors"
	"net/http"

	dom "userapi/internal/domain"
	"userapi/internal/dto"
	"userapi/internal/logger"
	"userapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	msgUserUpdated = "User updated successfully."
	msgUserDeleted = "User deleted successfully."
)

var errNullBody = errors.New("request body must be a JSON object, got null")

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List godoc
// @Summary      Get all users
// @Description  Retrieve a list of all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.svc.GetAllUsers(c.Request.Context())
	if err != nil {
		internalError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, usersToResponses(list))
}

// GetByID godoc
// @Summary      Get a user by ID
// @Description  Returns a single user by its ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID of the user to retrieve"
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  "User not found"
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	u, found, err := h.svc.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "get user", err)
		return
	}
	if !found {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, userToResponse(u))
}

// Create godoc
// @Summary      Create a new user
// @Description  Creates a new user and returns the created object
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.UserRequest  true  "User object to be created"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	req, err := bindUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.CreateUser(c.Request.Context(), requestToUser(req))
	if err != nil {
		internalError(c, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(u))
}

// Update godoc
// @Summary      Update a user
// @Description  Replaces name, email, phone and address of an existing user. The id in the body is ignored.
// @Tags         users
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        id    path      string           true  "ID of the user to update"
// @Param        body  body      dto.UserRequest  true  "Updated user object"
// @Success      200   {string}  string  "User updated successfully."
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   "User not found"
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	req, err := bindUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.svc.UpdateUserByID(c.Request.Context(), c.Param("id"), requestToUser(req))
	if err != nil {
		internalError(c, "update user", err)
		return
	}
	if !updated {
		c.Status(http.StatusNotFound)
		return
	}
	c.String(http.StatusOK, msgUserUpdated)
}

// Delete godoc
// @Summary      Delete a user
// @Description  Deletes a user by its ID
// @Tags         users
// @Produce      plain
// @Security     BearerAuth
// @Param        id   path      string  true  "ID of the user to delete"
// @Success      200  {string}  string  "User deleted successfully."
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  "User not found"
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	deleted, err := h.svc.DeleteUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		internalError(c, "delete user", err)
		return
	}
	if !deleted {
		c.Status(http.StatusNotFound)
		return
	}
	c.String(http.StatusOK, msgUserDeleted)
}

// internalError logs the cause and answers 500 without echoing it.
func internalError(c *gin.Context, op string, err error) {
	logger.Ctx(c.Request.Context()).Error().Err(err).Str("op", op).Msg("request failed")
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func requestToUser(r dto.UserRequest) dom.User {
	return dom.User{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Address: u.Address,
	}
}

func usersToResponses(list []dom.User) []dto.UserResponse {
	out := make([]dto.UserResponse, len(list))
	for i := range list {
		out[i] = userToResponse(list[i])
	}
	return out
}

// bindUser decodes the JSON body. A literal null decodes without error into
// the zero value, so it is rejected before binding.
func bindUser(c *gin.Context) (dto.UserRequest, error) {
	var req dto.UserRequest
	raw, err := c.GetRawData()
	if err != nil {
		return req, err
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return req, errNullBody
	}
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		return req, err
	}
	return req, nil
}
