package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CSVParserVersion 当前解析器版本，写入导入批次用于审计
const CSVParserVersion = "1.0"

// CSVRecord 解析后的单行银行流水记录
type CSVRecord struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"` // 最小货币单位（分）
}

// 三列固定表头，允许出现额外列但不参与校验
const (
	csvColDate        = "Date"
	csvColDescription = "Description"
	csvColAmount      = "Amount"
)

// 支持的日期格式，按顺序尝试
var csvDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// ValidateCSV 校验 CSV 文本是否符合导入格式：
// 带表头、包含 Date/Description/Amount 三列、且至少有一行数据。
// 只做结构校验，不做数值/日期转换；转换失败在异步解析阶段处理。
func ValidateCSV(contents string) bool {
	header, rows, err := readCSV(contents)
	if err != nil {
		return false
	}
	dateIdx, descIdx, amountIdx, err := headerIndexes(header)
	if err != nil {
		return false
	}
	// 每一行都必须覆盖三个必需列
	maxIdx := max(dateIdx, max(descIdx, amountIdx))
	for _, row := range rows {
		if len(row) <= maxIdx {
			return false
		}
	}
	return len(rows) > 0
}

// ParseCSV 把 CSV 文本解析为记录切片。
// 快速失败：任何一行的日期或金额无法转换，则整批失败不返回部分结果，
// 避免半截导入悄悄污染余额。
func ParseCSV(contents string) ([]CSVRecord, error) {
	header, rows, err := readCSV(contents)
	if err != nil {
		return nil, fmt.Errorf("CSV 读取失败: %w", err)
	}

	dateIdx, descIdx, amountIdx, err := headerIndexes(header)
	if err != nil {
		return nil, err
	}

	maxIdx := max(dateIdx, max(descIdx, amountIdx))
	records := make([]CSVRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) <= maxIdx {
			return nil, fmt.Errorf("第 %d 行列数不足", i+2)
		}

		date, err := parseCSVDate(strings.TrimSpace(row[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("第 %d 行日期无法解析: %w", i+2, err)
		}
		amount, err := ParseAmount(strings.TrimSpace(row[amountIdx]))
		if err != nil {
			return nil, fmt.Errorf("第 %d 行金额无法解析: %w", i+2, err)
		}

		records = append(records, CSVRecord{
			Date:        date,
			Description: strings.TrimSpace(row[descIdx]),
			Amount:      amount,
		})
	}
	return records, nil
}

// readCSV 读取表头和数据行，容忍各行列数不一致
func readCSV(contents string) ([]string, [][]string, error) {
	r := csv.NewReader(strings.NewReader(contents))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, errors.New("CSV 为空")
	}
	return all[0], all[1:], nil
}

// headerIndexes 定位三个必需列的下标
func headerIndexes(header []string) (dateIdx, descIdx, amountIdx int, err error) {
	dateIdx, descIdx, amountIdx = -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case csvColDate:
			dateIdx = i
		case csvColDescription:
			descIdx = i
		case csvColAmount:
			amountIdx = i
		}
	}
	if dateIdx < 0 || descIdx < 0 || amountIdx < 0 {
		return 0, 0, 0, errors.New("表头缺少 Date/Description/Amount 列")
	}
	return dateIdx, descIdx, amountIdx, nil
}

// parseCSVDate 按支持的格式依次尝试解析日期
func parseCSVDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("日期为空")
	}
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("不支持的日期格式: %q", s)
}

// ParseAmount 把十进制金额字符串转换为最小货币单位（分）。
// 纯字符串运算，不经过浮点数，保证 "19.995" 这类边界值不丢精度。
// 舍入规则：四舍五入、远离零（"19.995"→2000，"19.994"→1999，"-4.505"→-451）。
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	// 去掉千分位分隔符
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, errors.New("金额为空")
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return 0, errors.New("金额无效")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, errors.New("金额无效")
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("金额含非法字符: %q", s)
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("金额超出范围: %q", s)
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, fmt.Errorf("金额超出范围: %q", s)
	}

	// 取前两位小数，第三位起四舍五入
	var cents int64
	if len(fracPart) > 0 {
		cents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			cents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				cents++
			}
		}
	}

	total := iv*100 + cents
	if negative {
		total = -total
	}
	return total, nil
}
