package ledger

import (
	"testing"

	"budget/models"

	"github.com/stretchr/testify/assert"
)

func snap(bucketID uint, amount int64, reviewed, archived bool) *Snapshot {
	return &Snapshot{BucketID: bucketID, Amount: amount, Reviewed: reviewed, Archived: archived}
}

func TestDeltas_Create(t *testing.T) {
	// 已核对交易创建：+amount
	assert.Equal(t,
		[]Delta{{BucketID: 1, Amount: 500}},
		Deltas(nil, snap(1, 500, true, false)))

	// 未核对交易创建：无增量
	assert.Empty(t, Deltas(nil, snap(1, 500, false, false)))
}

func TestDeltas_Delete(t *testing.T) {
	// 删除已核对交易：-amount
	assert.Equal(t,
		[]Delta{{BucketID: 2, Amount: -300}},
		Deltas(snap(2, 300, true, false), nil))

	// 删除未核对交易：无增量
	assert.Empty(t, Deltas(snap(2, 300, false, false), nil))
}

func TestDeltas_AmountChange(t *testing.T) {
	// 同桶金额修改：+(new - old)
	assert.Equal(t,
		[]Delta{{BucketID: 1, Amount: 150}},
		Deltas(snap(1, 100, true, false), snap(1, 250, true, false)))

	// 金额不变：无增量
	assert.Empty(t, Deltas(snap(1, 100, true, false), snap(1, 100, true, false)))

	// 未核对交易的金额修改不影响余额
	assert.Empty(t, Deltas(snap(1, 100, false, false), snap(1, 250, false, false)))
}

func TestDeltas_BucketMove(t *testing.T) {
	// 换桶：旧桶 -old，新桶 +new
	assert.Equal(t,
		[]Delta{{BucketID: 1, Amount: -100}, {BucketID: 2, Amount: 250}},
		Deltas(snap(1, 100, true, false), snap(2, 250, true, false)))

	// 未核对交易换桶：无增量
	assert.Empty(t, Deltas(snap(1, 100, false, false), snap(2, 100, false, false)))
}

func TestDeltas_ReviewFlip(t *testing.T) {
	// 核对（false→true）：+amount
	assert.Equal(t,
		[]Delta{{BucketID: 1, Amount: 400}},
		Deltas(snap(1, 400, false, false), snap(1, 400, true, false)))

	// 取消核对（true→false）：-amount
	assert.Equal(t,
		[]Delta{{BucketID: 1, Amount: -400}},
		Deltas(snap(1, 400, true, false), snap(1, 400, false, false)))
}

func TestDeltas_ReviewToggleNetsToZero(t *testing.T) {
	// 核对后再取消核对，净余额变化为零
	var total int64
	for _, d := range Deltas(snap(1, 700, false, false), snap(1, 700, true, false)) {
		total += d.Amount
	}
	for _, d := range Deltas(snap(1, 700, true, false), snap(1, 700, false, false)) {
		total += d.Amount
	}
	assert.Zero(t, total)
}

func TestDeltas_ArchiveRestore(t *testing.T) {
	// 归档已核对交易：-amount
	assert.Equal(t,
		[]Delta{{BucketID: 3, Amount: -900}},
		Deltas(snap(3, 900, true, false), snap(3, 900, true, true)))

	// 恢复已核对交易：+amount
	assert.Equal(t,
		[]Delta{{BucketID: 3, Amount: 900}},
		Deltas(snap(3, 900, true, true), snap(3, 900, true, false)))

	// 归档未核对交易：无增量
	assert.Empty(t, Deltas(snap(3, 900, false, false), snap(3, 900, false, true)))

	// 已归档交易的金额修改不影响余额
	assert.Empty(t, Deltas(snap(3, 900, true, true), snap(3, 500, true, true)))
}

func TestDeltas_ReviewFlipWithBucketMove(t *testing.T) {
	// 换桶同时核对：只有新桶记入
	assert.Equal(t,
		[]Delta{{BucketID: 2, Amount: 250}},
		Deltas(snap(1, 100, false, false), snap(2, 250, true, false)))

	// 换桶同时取消核对：只有旧桶撤销
	assert.Equal(t,
		[]Delta{{BucketID: 1, Amount: -100}},
		Deltas(snap(1, 100, true, false), snap(2, 250, false, false)))
}

func TestDeltas_NegativeAmounts(t *testing.T) {
	// 支出类交易（负数金额）
	assert.Equal(t,
		[]Delta{{BucketID: 1, Amount: -450}},
		Deltas(nil, snap(1, -450, true, false)))
	assert.Equal(t,
		[]Delta{{BucketID: 1, Amount: 450}},
		Deltas(snap(1, -450, true, false), nil))
}

// 余额不变量：任意事件序列下，余额增量之和等于期末贡献之和减期初贡献之和
func TestDeltas_InvariantOverSequence(t *testing.T) {
	balances := map[uint]int64{1: 0, 2: 0}

	apply := func(prev, next *Snapshot) {
		for _, d := range Deltas(prev, next) {
			balances[d.BucketID] += d.Amount
		}
	}

	// 创建 → 核对 → 改金额 → 换桶 → 归档 → 恢复 → 删除
	s1 := snap(1, 1000, false, false)
	apply(nil, s1)
	s2 := snap(1, 1000, true, false)
	apply(s1, s2)
	s3 := snap(1, 1200, true, false)
	apply(s2, s3)
	s4 := snap(2, 1200, true, false)
	apply(s3, s4)
	s5 := snap(2, 1200, true, true)
	apply(s4, s5)
	s6 := snap(2, 1200, true, false)
	apply(s5, s6)
	apply(s6, nil)

	assert.Zero(t, balances[1])
	assert.Zero(t, balances[2])
}

func TestSnapshotOf(t *testing.T) {
	tx := &models.Transaction{BucketID: 7, Amount: -321, Reviewed: true, Archived: false}
	s := SnapshotOf(tx)
	assert.Equal(t, Snapshot{BucketID: 7, Amount: -321, Reviewed: true, Archived: false}, s)
}
