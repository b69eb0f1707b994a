//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"piazza/internal/config"
	"piazza/internal/dbmongo"
	"piazza/internal/post"
	"piazza/internal/user"
)

// This is just a declaration — wire generates the real body
func InitializeApplication() (*Application, error) {
	wire.Build(
		config.LoadConfig,
		dbmongo.NewMongoConnection,
		post.NewPostRepository,
		post.NewCommentRepository,
		post.NewPostService,
		post.NewHandler,
		user.NewUserRepository,
		user.NewUserService,
		user.NewHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
