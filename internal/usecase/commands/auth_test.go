//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	reqdto "tablebook/internal/handler/dto/request"
	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/jwt"
	"tablebook/internal/pkg/password"
	"tablebook/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := password.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	admin := config.AdminConfig{
		Email:        "staff@example.com",
		PasswordHash: hash,
	}
	jwtService := jwt.NewService("test-secret", time.Hour)
	auth := commands.NewAuthCommands(admin, jwtService)

	t.Run("valid credentials yield an admin token", func(t *testing.T) {
		result, err := auth.Login(ctx, reqdto.LoginRequest{
			Email:    "staff@example.com",
			Password: "correct horse battery staple",
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.AccessToken)

		claims, err := jwtService.ValidateToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "staff@example.com", claims.Email)
		assert.Equal(t, commands.RoleAdmin, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, reqdto.LoginRequest{
			Email:    "staff@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, err := auth.Login(ctx, reqdto.LoginRequest{
			Email:    "intruder@example.com",
			Password: "correct horse battery staple",
		})
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})
}
