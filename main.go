package main

import (
	"github.com/biosecret/go-todo/app"
	"github.com/gofiber/fiber/v2/log"
)

// @title Todo API
// @version 1.0
// @description Task manager backed by Amazon Cognito authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := app.SetupAndRunApp(); err != nil {
		log.Fatal(err)
	}
}
