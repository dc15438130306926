package adapters

import (
	"context"

	"gorm.io/gorm"

	"account_backend/internal/feature/auth/domain/entity"
	"account_backend/internal/feature/auth/usecase"
)

// gormStore はStoreインターフェースのGORM実装です。
// トランザクション内ではtxにバインドされた新しいgormStoreを渡します。
type gormStore struct {
	db *gorm.DB
}

var _ usecase.Store = (*gormStore)(nil)

// NewGormStore は指定されたgorm.DB接続でgormStoreを生成します。
func NewGormStore(db *gorm.DB) *gormStore {
	return &gormStore{db: db}
}

// Users はこのストアの接続にバインドされたUserRepositoryを返します。
func (s *gormStore) Users() usecase.UserRepository {
	return NewUserGorm(s.db)
}

// Activations はこのストアの接続にバインドされたActivationRepositoryを返します。
func (s *gormStore) Activations() usecase.ActivationRepository {
	return NewActivationGorm(s.db)
}

// WithinTx はfnを1つのトランザクションで実行します。
func (s *gormStore) WithinTx(ctx context.Context, fn func(tx usecase.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// Models はAutoMigrateの対象となるモデルを返します。usersを先に作成する必要があります。
func Models() []any {
	return []any{&entity.User{}, &ActivationModel{}}
}
