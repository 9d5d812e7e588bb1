package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Greeting is the body served by the hello route.
const Greeting = "Hey There Barbie ;3 "

// HelloPath is the only route the application registers.
const HelloPath = "/hello"

func registerRoutes(router *gin.Engine) {
	router.GET(HelloPath, hello)
}

func hello(c *gin.Context) {
	c.String(http.StatusOK, Greeting)
}
