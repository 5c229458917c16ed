package payroll

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// idempotencyCacheTTL keeps a generated payroll replayable for repeated
// requests carrying the same Idempotency-Key.
const idempotencyCacheTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func filterFromQuery(c *gin.Context) ListFilter {
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))
	return ListFilter{
		UserID: c.Query("user_id"),
		Month:  month,
		Year:   year,
		Status: c.Query("status"),
	}
}

func (h *Handler) Generate(c *gin.Context) {
	var req GeneratePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.releaseIdempotencyLock(c)
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.releaseIdempotencyLock(c)
		h.writeServiceError(c, err)
		return
	}

	h.fillIdempotencyCache(c, resp)
	response.Success(c, http.StatusCreated, "Payroll generated successfully", gin.H{"payroll": resp})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Payroll updated successfully", gin.H{"payroll": resp})
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Payroll approved successfully", gin.H{"payroll": resp})
}

func (h *Handler) MarkPaid(c *gin.Context) {
	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.MarkPaid(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Payroll marked as paid", gin.H{"payroll": resp})
}

func (h *Handler) Report(c *gin.Context) {
	resp, err := h.service.Report(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"summary": resp.Summary, "payrolls": resp.Payrolls})
}

func (h *Handler) GetMy(c *gin.Context) {
	resp, err := h.service.GetMy(c.Request.Context(), c.GetString("user_id"), filterFromQuery(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"payrolls": resp, "count": len(resp)})
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"payrolls": resp, "count": len(resp)})
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
	response.Success(c, http.StatusOK, "", gin.H{"payroll": resp})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Payroll deleted successfully", nil)
}

func (h *Handler) fillIdempotencyCache(c *gin.Context, resp PayrollResponse) {
	cacheKey := c.GetString("idempotency_cache_key")
	if cacheKey == "" || h.rdb == nil {
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := h.rdb.Set(c.Request.Context(), cacheKey, body, idempotencyCacheTTL).Err(); err != nil {
		h.logger.Warn("fill idempotency cache failed", zap.String("cache_key", cacheKey), zap.Error(err))
	}
	h.releaseIdempotencyLock(c)
}

func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	lockKey := c.GetString("idempotency_lock_key")
	if lockKey == "" || h.rdb == nil {
		return
	}
	if err := h.rdb.Del(c.Request.Context(), lockKey).Err(); err != nil {
		h.logger.Warn("release idempotency lock failed", zap.String("lock_key", lockKey), zap.Error(err))
	}
}
