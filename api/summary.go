package api

import (
	"time"

	"budget/database"
	"budget/models"

	"github.com/gin-gonic/gin"
)

// SummaryResponse 总览汇总返回
type SummaryResponse struct {
	Buckets       []models.Bucket `json:"buckets"`
	TotalBalance  int64           `json:"total_balance"`  // 全部桶余额之和（分）
	WindowTotal   int64           `json:"window_total"`   // 时间范围内已核对、未归档交易金额之和
	WindowCount   int64           `json:"window_count"`   // 时间范围内交易笔数
	PendingReview int64           `json:"pending_review"` // 待核对交易笔数
}

// GetSummary 获取记账总览
// @Summary 获取记账总览
// @Description 返回全部桶及余额、总余额、时间范围内的交易汇总和待核对笔数。不传 start_day/end_day 则统计全部时间。
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param start_day query string false "开始日期 (2024-01-01)"
// @Param end_day query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=SummaryResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/statistics/summary [get]
func (h *BucketHandler) GetSummary(c *gin.Context) {
	var resp SummaryResponse

	if err := database.DB.Order("is_default DESC, id").Find(&resp.Buckets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	for _, b := range resp.Buckets {
		resp.TotalBalance += b.Balance
	}

	// 窗口内只统计计入余额的交易：已核对且未归档
	windowQ := database.DB.Model(&models.Transaction{}).
		Where("reviewed = ? AND archived = ?", true, false)
	if s := c.Query("start_day"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			windowQ = windowQ.Where("date >= ?", t)
		}
	}
	if s := c.Query("end_day"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			// 包含结束日期当天
			windowQ = windowQ.Where("date < ?", t.AddDate(0, 0, 1))
		}
	}

	windowQ.Count(&resp.WindowCount)
	windowQ.Select("COALESCE(SUM(amount), 0)").Scan(&resp.WindowTotal)

	database.DB.Model(&models.Transaction{}).
		Where("reviewed = ? AND archived = ?", false, false).
		Count(&resp.PendingReview)

	Success(c, resp)
}
