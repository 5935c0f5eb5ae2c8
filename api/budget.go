package api

import (
	"errors"
	"strconv"
	"time"

	"budget/database"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler 预算处理器
type BudgetHandler struct{}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// BudgetRequest 创建/更新预算请求
type BudgetRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"餐饮月度预算"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"required" example:"monthly"` // weekly/monthly/yearly
	Amount      int64  `json:"amount" binding:"required,gt=0" example:"100000"`
	Tags        []uint `json:"tags"` // 预算统计范围的标签集合
}

// Create 创建预算
// @Summary 创建预算
// @Description 预算按周期（weekly/monthly/yearly）统计其标签圈定的交易，Amount 必须大于 0
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if !models.IsValidBudgetType(req.Type) {
		BadRequest(c, "无效的预算周期类型，应为 weekly/monthly/yearly")
		return
	}

	budget := models.Budget{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Amount:      req.Amount,
	}

	err := database.DB.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Create(&budget).Error; err != nil {
			return err
		}
		return replaceBudgetTags(dtx, budget.ID, req.Tags)
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "创建预算失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", budget)
}

// List 获取预算列表
// @Summary 获取预算列表
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Budget} "获取成功"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	var budgets []models.Budget
	if err := database.DB.Order("id").Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, budgets)
}

// Update 更新预算
// @Summary 更新预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Param request body BudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "更新成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if !models.IsValidBudgetType(req.Type) {
		BadRequest(c, "无效的预算周期类型，应为 weekly/monthly/yearly")
		return
	}

	var budget models.Budget
	if err := database.DB.First(&budget, id).Error; err != nil {
		NotFound(c, "预算不存在")
		return
	}

	budget.Name = req.Name
	budget.Description = req.Description
	budget.Type = req.Type
	budget.Amount = req.Amount

	err = database.DB.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Save(&budget).Error; err != nil {
			return err
		}
		return replaceBudgetTags(dtx, budget.ID, req.Tags)
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", budget)
}

// Delete 删除预算
// @Summary 删除预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var budget models.Budget
	if err := database.DB.First(&budget, id).Error; err != nil {
		NotFound(c, "预算不存在")
		return
	}

	err = database.DB.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetTag{}).Error; err != nil {
			return err
		}
		return dtx.Delete(&budget).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Status 查询预算执行情况
// @Summary 查询预算执行情况
// @Description 计算参考日期所在周期窗口内的交易汇总，返回已发生金额、剩余额度和进度百分比
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Param date query string false "参考日期 (2024-01-15)，默认今天"
// @Success 200 {object} Response{data=service.BudgetStatus} "获取成功"
// @Failure 400 {object} Response "预算金额为 0"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id}/status [get]
func (h *BudgetHandler) Status(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	ref := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		// 与缺省的 time.Now() 同处本地时区，保证窗口边界一致
		t, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			BadRequest(c, "日期格式错误，应为: 2006-01-02")
			return
		}
		ref = t
	}

	svc := service.NewBudgetService(database.DB)
	status, err := svc.Evaluate(uint(id), ref)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBudgetNotFound):
			NotFound(c, "预算不存在")
		case errors.Is(err, service.ErrZeroBudgetAmount):
			BadRequest(c, "预算金额为 0，无法计算进度")
		case errors.Is(err, service.ErrInvalidBudgetType):
			BadRequest(c, "无效的预算周期类型")
		default:
			InternalError(c, SafeErrorMessage(err, "查询失败"))
		}
		return
	}

	Success(c, status)
}

// replaceBudgetTags 整体替换预算的标签集合，不存在的标签静默跳过
func replaceBudgetTags(dtx *gorm.DB, budgetID uint, tagIDs []uint) error {
	if err := dtx.Where("budget_id = ?", budgetID).Delete(&models.BudgetTag{}).Error; err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		var tag models.Tag
		if err := dtx.First(&tag, tagID).Error; err != nil {
			continue
		}
		link := models.BudgetTag{BudgetID: budgetID, TagID: tag.ID}
		if err := dtx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
