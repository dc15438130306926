package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"account_backend/internal/feature/auth/domain/entity"
)

// DefaultActivationTTL は有効化コードの有効期間です。
const DefaultActivationTTL = 60 * time.Second

// onRegister は新しいコードと現在時刻で有効化レコードを作成します。
// 呼び出し側のトランザクション内で実行されます。
func (u *authUsecase) onRegister(ctx context.Context, tx Store, user *entity.User) (*entity.Activation, error) {
	activation := &entity.Activation{
		UserID:    user.ID,
		Code:      u.codes.Generate(),
		CreatedAt: u.clock(),
	}
	if err := tx.Activations().Create(ctx, activation); err != nil {
		return nil, fmt.Errorf("failed to create activation: %w", err)
	}
	return activation, nil
}

// checkAndActivate はPendingActivationからActiveへの遷移を1つのトランザクションで評価します。
//
//   - 有効化済み: ErrAlreadyActive
//   - レコードなし: ErrActivationNotFound
//   - 期限切れ: コードを再発行してコミットし、再送したうえでErrCodeExpired（送信コードは見ない）
//   - 一致: ユーザーを有効化しレコードを削除
//   - 不一致: ErrCodeMismatch
func (u *authUsecase) checkAndActivate(ctx context.Context, userID uint, code string) error {
	var (
		expired bool
		resend  *entity.Activation
		email   string
	)

	err := u.store.WithinTx(ctx, func(tx Store) error {
		// トランザクション内で再取得する
		user, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.IsActive {
			return ErrAlreadyActive
		}

		current, err := tx.Activations().LockByUserID(ctx, user.ID)
		if err != nil {
			return err
		}

		now := u.clock()
		if current.IsExpired(now, u.activationTTL) {
			expired = true
			next, err := tx.Activations().Replace(ctx, current, u.codes.Generate(), now)
			if errors.Is(err, ErrActivationConflict) {
				// 別リクエストが既に再発行済み。書き込みも再送もしない
				return nil
			}
			if err != nil {
				return err
			}
			resend, email = next, user.Email
			return nil
		}

		if subtle.ConstantTimeCompare([]byte(current.Code), []byte(code)) != 1 {
			return ErrCodeMismatch
		}
		if err := tx.Users().MarkActive(ctx, user.ID); err != nil {
			return err
		}
		return tx.Activations().Delete(ctx, user.ID)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyActive),
			errors.Is(err, ErrActivationNotFound),
			errors.Is(err, ErrCodeMismatch),
			errors.Is(err, ErrUserNotFound):
			return err
		}
		return fmt.Errorf("failed to activate user: %w", err)
	}

	if expired {
		if resend != nil {
			u.notify(ctx, email, resend.Code)
		}
		return ErrCodeExpired
	}
	return nil
}
