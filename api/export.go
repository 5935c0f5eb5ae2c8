package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"budget/database"
	"budget/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// exportQuery 解析导出时间范围并查询交易
func exportQuery(c *gin.Context) ([]models.Transaction, string, string, bool) {
	startStr := c.Query("start_day")
	endStr := c.Query("end_day")

	if startStr == "" || endStr == "" {
		BadRequest(c, "请提供开始日期和结束日期")
		return nil, "", "", false
	}

	start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2006-01-02")
		return nil, "", "", false
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2006-01-02")
		return nil, "", "", false
	}

	var transactions []models.Transaction
	if err := database.DB.
		Where("date >= ? AND date < ?", start, end.AddDate(0, 0, 1)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return nil, "", "", false
	}
	return transactions, startStr, endStr, true
}

// bucketNames 预加载桶名映射
func bucketNames() map[uint]string {
	var buckets []models.Bucket
	database.DB.Find(&buckets)
	names := make(map[uint]string, len(buckets))
	for _, b := range buckets {
		names[b.ID] = b.Name
	}
	return names
}

// ExportCSV 导出交易记录为 CSV
// @Summary 导出交易记录为 CSV
// @Description 根据日期范围导出交易记录为 CSV 文件
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param start_day query string true "开始日期 (2024-01-01)"
// @Param end_day query string true "结束日期 (2024-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	transactions, startStr, endStr, ok := exportQuery(c)
	if !ok {
		return
	}
	names := bucketNames()

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"ID", "名称", "描述", "金额(分)", "资金桶", "日期", "已核对", "已归档"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for _, t := range transactions {
		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Name,
			t.Description,
			fmt.Sprintf("%d", t.Amount),
			names[t.BucketID],
			t.Date.Format("2006-01-02"),
			fmt.Sprintf("%v", t.Reviewed),
			fmt.Sprintf("%v", t.Archived),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.csv", startStr, endStr)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出交易记录为 Excel
// @Summary 导出交易记录为 Excel
// @Description 根据日期范围导出交易记录为 .xlsx 文件，金额以元为单位
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start_day query string true "开始日期 (2024-01-01)"
// @Param end_day query string true "结束日期 (2024-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	transactions, startStr, endStr, ok := exportQuery(c)
	if !ok {
		return
	}
	names := bucketNames()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "交易记录"
	index, err := f.NewSheet(sheet)
	if err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "名称", "描述", "金额(元)", "资金桶", "日期", "已核对", "已归档"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, t := range transactions {
		values := []interface{}{
			t.ID,
			t.Name,
			t.Description,
			float64(t.Amount) / 100,
			names[t.BucketID],
			t.Date.Format("2006-01-02"),
			t.Reviewed,
			t.Archived,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s_%s.xlsx", startStr, endStr)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
