package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodFor_Weekly(t *testing.T) {
	// 2024-01-10 是周三，所在周为 01-07（周日）到 01-13（周六）
	from, to, err := PeriodFor("weekly", day(2024, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 7), from)
	assert.Equal(t, day(2024, 1, 13), to)

	// 参考日期正好是周日时窗口从当天开始
	from, to, err = PeriodFor("weekly", day(2024, 1, 7))
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 7), from)
	assert.Equal(t, day(2024, 1, 13), to)
}

func TestPeriodFor_Monthly(t *testing.T) {
	// 闰年二月
	from, to, err := PeriodFor("monthly", day(2024, 2, 15))
	require.NoError(t, err)
	assert.Equal(t, day(2024, 2, 1), from)
	assert.Equal(t, day(2024, 2, 29), to)

	from, to, err = PeriodFor("monthly", day(2023, 12, 31))
	require.NoError(t, err)
	assert.Equal(t, day(2023, 12, 1), from)
	assert.Equal(t, day(2023, 12, 31), to)
}

func TestPeriodFor_Yearly(t *testing.T) {
	from, to, err := PeriodFor("yearly", day(2024, 6, 15))
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 1), from)
	assert.Equal(t, day(2024, 12, 31), to)
}

func TestPeriodFor_UnknownType(t *testing.T) {
	// 未知周期类型直接报错，不做一日窗口兜底
	_, _, err := PeriodFor("daily", day(2024, 1, 10))
	assert.True(t, errors.Is(err, ErrInvalidBudgetType))

	_, _, err = PeriodFor("", day(2024, 1, 10))
	assert.True(t, errors.Is(err, ErrInvalidBudgetType))
}

func TestPeriodFor_TruncatesTimeOfDay(t *testing.T) {
	ref := time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC)
	from, to, err := PeriodFor("weekly", ref)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 7), from)
	assert.Equal(t, day(2024, 1, 13), to)
}
