package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"account_backend/internal/feature/auth/domain/entity"
)

const (
	// DefaultAccessTokenTTL はログイン時に発行するアクセストークンの有効期間です。
	DefaultAccessTokenTTL = 30 * time.Minute

	// dummyHash はユーザーが存在しない場合にも比較処理を行うためのダミーハッシュです。
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// authUsecase は登録・有効化・ログインのビジネスロジックを実装します。
type authUsecase struct {
	store    Store
	hasher   PasswordHasher
	tokens   TokenIssuer
	codes    CodeGenerator
	notifier Notifier

	now            func() time.Time
	accessTokenTTL time.Duration
	activationTTL  time.Duration
}

// Option はauthUsecaseの設定を変更します。
type Option func(*authUsecase)

// WithClock は現在時刻の取得関数を差し替えます（テスト用）。
func WithClock(now func() time.Time) Option {
	return func(u *authUsecase) { u.now = now }
}

// WithAccessTokenTTL はログイン時のトークン有効期間を設定します。
func WithAccessTokenTTL(ttl time.Duration) Option {
	return func(u *authUsecase) {
		if ttl > 0 {
			u.accessTokenTTL = ttl
		}
	}
}

// WithActivationTTL は有効化コードの有効期間を設定します。
func WithActivationTTL(ttl time.Duration) Option {
	return func(u *authUsecase) {
		if ttl > 0 {
			u.activationTTL = ttl
		}
	}
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(
	store Store,
	hasher PasswordHasher,
	tokens TokenIssuer,
	codes CodeGenerator,
	notifier Notifier,
	opts ...Option,
) *authUsecase {
	u := &authUsecase{
		store:          store,
		hasher:         hasher,
		tokens:         tokens,
		codes:          codes,
		notifier:       notifier,
		now:            time.Now,
		accessTokenTTL: DefaultAccessTokenTTL,
		activationTTL:  DefaultActivationTTL,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// clock は常にUTCで現在時刻を返します。
func (u *authUsecase) clock() time.Time {
	return u.now().UTC()
}

// Register は未有効化ユーザーと有効化レコードを1つのトランザクションで作成し、
// コミット後に有効化コードを通知します。通知の失敗はログに残すだけで呼び出し側には返しません。
func (u *authUsecase) Register(ctx context.Context, email, password string) (*entity.User, error) {
	if email == "" || password == "" {
		return nil, ErrValidation
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user := &entity.User{Email: email, Password: hashed}
	var activation *entity.Activation
	err = u.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		activation, err = u.onRegister(ctx, tx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	u.notify(ctx, user.Email, activation.Code)
	return user, nil
}

// Login はユーザーを認証し、成功時にsubjectがメールアドレスのトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.store.Users().FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := dummyHash
	if user != nil {
		passwordHash = user.Password
	}
	// 第1引数は平文パスワード、第2引数はハッシュ化パスワード
	matched := u.hasher.Verify(password, passwordHash)

	// 未登録・未有効化・不一致はすべて同じエラーにする
	if user == nil || !user.IsActive || !matched {
		return "", ErrUnauthorized
	}

	token, err := u.tokens.Issue(user.Email, u.accessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Activate はメールアドレスで指定されたユーザーの有効化コードを検証します。
func (u *authUsecase) Activate(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return ErrValidation
	}

	user, err := u.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	return u.checkAndActivate(ctx, user.ID, code)
}

// Identify はトークンを検証し、対応する有効化済みユーザーを返します。
func (u *authUsecase) Identify(ctx context.Context, token string) (*entity.User, error) {
	subject, err := u.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := u.store.Users().FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// notify は有効化コードを送信します。失敗はログに記録するのみです。
func (u *authUsecase) notify(ctx context.Context, to, code string) {
	if u.notifier == nil {
		return
	}
	if err := u.notifier.SendActivationCode(ctx, to, code); err != nil {
		slog.WarnContext(ctx, "failed to send activation code", "to", to, "error", err)
	}
}
