package usecase

import (
	"context"
	"time"

	"account_backend/internal/feature/auth/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化し、IDを設定します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに完全一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// MarkActive は未有効化ユーザーを有効化済みにします。
	// 既に有効化済みの場合はErrAlreadyActiveを返します。
	MarkActive(ctx context.Context, id uint) error
}

// ActivationRepository は有効化レコードの永続化層を抽象化します。
type ActivationRepository interface {
	// Create は新規登録ユーザーの有効化レコードを永続化します。
	Create(ctx context.Context, activation *entity.Activation) error

	// FindByUserID はユーザーの有効化レコードを取得します。
	// 存在しない場合、ErrActivationNotFoundを返します。
	FindByUserID(ctx context.Context, userID uint) (*entity.Activation, error)

	// LockByUserID はFindByUserIDと同じですが、対応するストアでは
	// トランザクション終了まで行ロックを取得します。
	LockByUserID(ctx context.Context, userID uint) (*entity.Activation, error)

	// Replace はprevのコードと発行時刻を置き換え、世代番号を1つ進めます。
	// 保存済みの世代番号がprevと一致しない場合、ErrActivationConflictを返します。
	Replace(ctx context.Context, prev *entity.Activation, code string, createdAt time.Time) (*entity.Activation, error)

	// Delete はユーザーの有効化レコードを削除します。
	Delete(ctx context.Context, userID uint) error
}

// Store はリポジトリをまとめ、必要に応じてトランザクションにスコープします。
type Store interface {
	Users() UserRepository
	Activations() ActivationRepository

	// WithinTx はトランザクション内のStoreでfnを実行します。
	// fnがnilを返せばコミットし、それ以外はロールバックします。
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// PasswordHasher はパスワードのハッシュ化と検証を行います。
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify はpasswordがhashと一致するか返します。不正なハッシュでもエラーにはなりません。
	Verify(password, hash string) bool
}

// CodeGenerator は有効化コードを生成します。
type CodeGenerator interface {
	Generate() string
}

// TokenIssuer はユースケースが必要とするトークン操作を定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenIssuer interface {
	// Issue はttl後に失効するsubject向けの署名済みトークンを生成します。
	Issue(subject string, ttl time.Duration) (string, error)

	// Verify は有効かつ期限内のトークンのsubjectを返します。
	Verify(token string) (string, error)
}

// Notifier は有効化コードを利用者に届けます。
type Notifier interface {
	SendActivationCode(ctx context.Context, to, code string) error
}
