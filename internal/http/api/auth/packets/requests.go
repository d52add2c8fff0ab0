package packets

// body for registering
type RegisterForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// body for logging in
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type ChangePasswordForm struct {
	OldPassword    string `form:"old_password" binding:"required"`
	NewPassword    string `form:"new_password" binding:"required"`
	RepeatPassword string `form:"repeat_password" binding:"required"`
}
