// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrValidation は入力が欠けている、または不正な場合に返されます。
	ErrValidation = errors.New("validation error")
	// ErrUserNotFound はメールアドレスまたはIDでユーザーが見つからない場合に返されます。
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailAlreadyExists は既に存在するメールアドレスでユーザーを作成しようとした場合に返されます。
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrUnauthorized は認証失敗時に常に返される単一のエラーです。
	// 未登録・未有効化・パスワード不一致を呼び出し側から区別できません。
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrActivationNotFound はユーザーに有効化レコードが存在しない場合に返されます。
	ErrActivationNotFound = errors.New("activation record not found")
	// ErrAlreadyActive は既に有効化済みのユーザーを有効化しようとした場合に返されます。
	ErrAlreadyActive = errors.New("user already activated")
	// ErrCodeExpired は有効化コードが有効期限を過ぎている場合に返されます。
	// このエラーが返された時点で新しいコードが発行済みです。
	ErrCodeExpired = errors.New("activation code expired")
	// ErrCodeMismatch は送信されたコードが現在のコードと一致しない場合に返されます。
	ErrCodeMismatch = errors.New("wrong activation code")
	// ErrActivationConflict はレコード読み取り後に別リクエストが置き換えた場合に
	// ActivationRepository.Replace が返します。
	ErrActivationConflict = errors.New("activation record changed concurrently")
)
