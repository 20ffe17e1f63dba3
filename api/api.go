package api

import (
	"github.com/gin-gonic/gin"

	"github.com/splitflow/splitflow"
	"github.com/splitflow/splitflow/api/middleware"
	"github.com/splitflow/splitflow/config"
)

type Api struct {
	splitflow *splitflow.Splitflow
	router    *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/payments", a.CreatePayment)
	router.GET("/payments/:id", a.GetPayment)
	return a.router
}

func NewAPI(s *splitflow.Splitflow) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{splitflow: s, router: r}
}
