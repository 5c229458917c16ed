package attendance

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
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
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
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Status:    c.Query("status"),
	}
}

func (h *Handler) CheckIn(c *gin.Context) {
	resp, err := h.service.CheckIn(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Checked in successfully", gin.H{"attendance": resp})
}

func (h *Handler) CheckOut(c *gin.Context) {
	resp, err := h.service.CheckOut(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Checked out successfully", gin.H{"attendance": resp})
}

func (h *Handler) GetMy(c *gin.Context) {
	resp, err := h.service.GetMy(c.Request.Context(), c.GetString("user_id"), filterFromQuery(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"attendance": resp, "count": len(resp)})
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"attendance": resp, "count": len(resp)})
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
	response.Success(c, http.StatusOK, "", gin.H{"attendance": resp})
}

func (h *Handler) Add(c *gin.Context) {
	var req AddAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Add(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Attendance added successfully", gin.H{"attendance": resp})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Attendance updated successfully", gin.H{"attendance": resp})
}

func (h *Handler) Report(c *gin.Context) {
	resp, err := h.service.Report(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"report": resp})
}
