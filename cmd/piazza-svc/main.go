package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"piazza/internal/common"
	"piazza/internal/di"
)

func main() {
	fmt.Println("piazza service")

	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, using system env variables")
	}

	// step-1
	// initialize all the dependencies using wire
	app, err := di.InitializeApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	log.Println("Connected to Piazza Database")

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Mongo.Close(ctx); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}()

	// step-2
	// register routes and protect everything except register/login
	router := mux.NewRouter()
	app.UserHandler.Register(router)
	app.PostHandler.Register(router)

	server := &http.Server{
		Addr:         app.Config.Server.Host + ":" + app.Config.Server.Port,
		Handler:      common.AuthMiddleware(router),
		ReadTimeout:  time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.Config.Server.WriteTimeout) * time.Second,
	}

	log.Printf("Running on: http://%s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
