package leave

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func filterFromQuery(c *gin.Context) ListFilter {
	return ListFilter{
		UserID:    c.Query("user_id"),
		Status:    c.Query("status"),
		LeaveType: c.Query("leave_type"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
}

func (h *Handler) Apply(c *gin.Context) {
	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Leave applied successfully", gin.H{"leave": resp})
}

func (h *Handler) Approve(c *gin.Context) {
	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave approved successfully", gin.H{"leave": resp})
}

func (h *Handler) Reject(c *gin.Context) {
	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave rejected successfully", gin.H{"leave": resp})
}

func (h *Handler) Cancel(c *gin.Context) {
	resp, err := h.service.Cancel(
		c.Request.Context(),
		c.GetString("user_id"),
		c.GetString("role"),
		c.Param("id"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave cancelled successfully", gin.H{"leave": resp})
}

func (h *Handler) GetBalance(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		userID = c.GetString("user_id")
	}

	resp, err := h.service.GetBalance(c.Request.Context(), c.GetString("user_id"), c.GetString("role"), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"leave_balance": resp})
}

func (h *Handler) GetMy(c *gin.Context) {
	resp, err := h.service.GetMy(c.Request.Context(), c.GetString("user_id"), filterFromQuery(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"leaves": resp, "count": len(resp)})
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"leaves": resp, "count": len(resp)})
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(
		c.Request.Context(),
		c.GetString("user_id"),
		c.GetString("role"),
		c.Param("id"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"leave": resp})
}
