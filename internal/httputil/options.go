package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

func options(c *gin.Context, methods string) {
	c.Header("allow", "OPTIONS, "+methods)
	c.Render(http.StatusNoContent, render.JSON{})
}

func OptionsGet(c *gin.Context) {
	options(c, "GET")
}

func OptionsPost(c *gin.Context) {
	options(c, "POST")
}

func OptionsGetPost(c *gin.Context) {
	options(c, "GET, POST")
}

func OptionsGetDelete(c *gin.Context) {
	options(c, "GET, DELETE")
}

func OptionsGetPutDelete(c *gin.Context) {
	options(c, "GET, PUT, DELETE")
}
