package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"account_backend/internal/feature/auth/domain/entity"
	"account_backend/internal/feature/auth/usecase"
)

// activationGorm はActivationRepositoryインターフェースのGORM実装です。
type activationGorm struct {
	db *gorm.DB
}

// activationGormがActivationRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ActivationRepository = (*activationGorm)(nil)

// NewActivationGorm は指定されたgorm.DB接続でactivationGormの新しいインスタンスを生成します。
func NewActivationGorm(db *gorm.DB) *activationGorm {
	return &activationGorm{db: db}
}

// Create は有効化レコードを追加します。
func (r *activationGorm) Create(ctx context.Context, a *entity.Activation) error {
	if a == nil {
		return errors.New("activation must not be nil")
	}
	return r.db.WithContext(ctx).Create(ActivationModelFromEntity(a)).Error
}

// FindByUserID はユーザーIDで有効化レコードを取得します。
// 存在しない場合、usecase.ErrActivationNotFoundを返します。
func (r *activationGorm) FindByUserID(ctx context.Context, userID uint) (*entity.Activation, error) {
	return r.find(r.db.WithContext(ctx), userID)
}

// LockByUserID はFOR UPDATEで有効化レコードを取得します。
// SQLiteは行ロックをサポートしないため、ロックなしで取得します（書き込みはDB全体で直列化されます）。
func (r *activationGorm) LockByUserID(ctx context.Context, userID uint) (*entity.Activation, error) {
	q := r.db.WithContext(ctx)
	if supportsRowLock(r.db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.find(q, userID)
}

// Replace はコードと発行時刻を置き換えます。
// 世代番号が一致しない（別リクエストが先に置き換えた）場合、usecase.ErrActivationConflictを返します。
func (r *activationGorm) Replace(ctx context.Context, prev *entity.Activation, code string, createdAt time.Time) (*entity.Activation, error) {
	next := &entity.Activation{
		UserID:     prev.UserID,
		Code:       code,
		CreatedAt:  createdAt.UTC(),
		Generation: prev.Generation + 1,
	}
	res := r.db.WithContext(ctx).
		Model(&ActivationModel{}).
		Where("user_id = ? AND generation = ?", prev.UserID, prev.Generation).
		Updates(map[string]any{
			"code":       next.Code,
			"created_at": next.CreatedAt,
			"generation": next.Generation,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, usecase.ErrActivationConflict
	}
	return next, nil
}

// Delete はユーザーの有効化レコードを削除します。
func (r *activationGorm) Delete(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&ActivationModel{}).Error
}

func (r *activationGorm) find(q *gorm.DB, userID uint) (*entity.Activation, error) {
	var m ActivationModel
	if err := q.Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrActivationNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// supportsRowLock はSELECT ... FOR UPDATEが使えるダイアレクトかを返します。
func supportsRowLock(db *gorm.DB) bool {
	switch db.Dialector.Name() {
	case "postgres", "mysql":
		return true
	}
	return false
}
