package ledger

import (
	"fmt"

	"budget/models"

	"gorm.io/gorm"
)

// Apply 在调用方的事务内把增量应用到桶余额。
// 使用 balance = balance + ? 的原子自增，由数据库行锁串行化同一个桶上的
// 并发更新；禁止读出余额再写回，那种写法在并发事件下会破坏余额不变量。
func Apply(tx *gorm.DB, deltas []Delta) error {
	for _, d := range deltas {
		res := tx.Model(&models.Bucket{}).
			Where("id = ?", d.BucketID).
			UpdateColumn("balance", gorm.Expr("balance + ?", d.Amount))
		if res.Error != nil {
			return fmt.Errorf("更新桶 %d 余额失败: %w", d.BucketID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("桶 %d 不存在，余额增量未应用", d.BucketID)
		}
	}
	return nil
}
