// Package ledger 负责维护桶余额不变量：
// bucket.balance == sum(amount) over 该桶所有未归档、已核对的交易。
// 增量计算是纯函数，与事件来源和存储层解耦，便于单独测试。
package ledger

import (
	"budget/models"
)

// Snapshot 交易在某一时刻的结算快照
// prev/next 均为 nil 以外的组合覆盖交易全生命周期：
// 创建 (nil, next)、修改/归档/恢复 (prev, next)、删除 (prev, nil)。
type Snapshot struct {
	BucketID uint
	Amount   int64
	Reviewed bool
	Archived bool
}

// Delta 应用到某个桶的有符号余额增量
type Delta struct {
	BucketID uint
	Amount   int64
}

// SnapshotOf 从交易记录提取结算快照
func SnapshotOf(t *models.Transaction) Snapshot {
	return Snapshot{
		BucketID: t.BucketID,
		Amount:   t.Amount,
		Reviewed: t.Reviewed,
		Archived: t.Archived,
	}
}

// contribution 快照对所属桶余额的贡献：仅已核对且未归档的交易计入
func contribution(s *Snapshot) int64 {
	if s == nil || !s.Reviewed || s.Archived {
		return 0
	}
	return s.Amount
}

// Deltas 计算一次交易状态变更需要应用的余额增量。
// 规则：撤销旧快照的贡献，再加上新快照的贡献；同桶时合并为单条增量。
// 覆盖创建、金额修改、换桶、核对状态翻转、删除、归档、恢复全部分支。
func Deltas(prev, next *Snapshot) []Delta {
	var deltas []Delta

	prevContrib := contribution(prev)
	nextContrib := contribution(next)

	// 同一个桶内的变更合并成一条增量
	if prev != nil && next != nil && prev.BucketID == next.BucketID {
		if d := nextContrib - prevContrib; d != 0 {
			deltas = append(deltas, Delta{BucketID: next.BucketID, Amount: d})
		}
		return deltas
	}

	// 跨桶或单边事件：先撤销旧桶，再记入新桶
	if prevContrib != 0 {
		deltas = append(deltas, Delta{BucketID: prev.BucketID, Amount: -prevContrib})
	}
	if nextContrib != 0 {
		deltas = append(deltas, Delta{BucketID: next.BucketID, Amount: nextContrib})
	}
	return deltas
}
