package commands

import (
	"context"

	reqdto "tablebook/internal/handler/dto/request"
	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/pkg/jwt"
	"tablebook/internal/pkg/password"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrTokenGeneration    = errs.New("token generation failed")
)

const RoleAdmin = "admin"

type LoginResult struct {
	AccessToken string
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
}

// authCommandsImpl checks the venue admin login against the deployment
// config. Staff accounts are not stored in the database; the bcrypt hash
// lives in the environment.
type authCommandsImpl struct {
	admin      config.AdminConfig
	jwtService *jwt.Service
}

func NewAuthCommands(admin config.AdminConfig, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{admin: admin, jwtService: jwtService}
}

func (a *authCommandsImpl) Login(_ context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	// Same error for unknown email and wrong password, so callers cannot
	// enumerate which admin accounts exist.
	if req.Email != a.admin.Email {
		return nil, ErrInvalidCredentials
	}
	if err := password.ComparePassword(a.admin.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(req.Email, RoleAdmin)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &LoginResult{AccessToken: token}, nil
}
