package di

import (
	"piazza/internal/config"
	"piazza/internal/dbmongo"
	"piazza/internal/post"
	"piazza/internal/user"
)

type Application struct {
	Config      *config.Config
	Mongo       *dbmongo.MongoClient
	PostHandler *post.Handler
	UserHandler *user.Handler
}
