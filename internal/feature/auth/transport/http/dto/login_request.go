package dto

// LoginForm は/users/loginの OAuth2 パスワードフロー形式のフォームを表します。
// usernameにはメールアドレスを指定します。
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}
