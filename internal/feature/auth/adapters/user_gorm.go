package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"account_backend/internal/feature/auth/domain/entity"
	"account_backend/internal/feature/auth/usecase"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
// PostgreSQLとSQLiteの両方で動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// 同じメールアドレスのユーザーが既に存在する場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user must not be nil")
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicateKey(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// MarkActive は未有効化のユーザーだけを有効化します。
// 更新行がない場合は、存在しなければErrUserNotFound、有効化済みならErrAlreadyActiveを返します。
func (r *userGorm) MarkActive(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND is_active = ?", id, false).
		Update("is_active", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return usecase.ErrAlreadyActive
}
