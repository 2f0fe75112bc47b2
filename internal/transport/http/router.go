package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"survey-quiz-service/internal/app"
	"survey-quiz-service/internal/metrics"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Catalog     *app.CatalogService
	Submissions *app.SubmissionService
	Reports     *app.ReportService
}

type RouterOptions struct {
	AllowOrigins []string
	Metrics      *metrics.Metrics
	Log          logrus.FieldLogger
}

// NewRouter wires every REST and websocket route onto a gin engine.
func NewRouter(services Services, opts RouterOptions) *gin.Engine {
	registerValidators()

	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(opts.Log))
	if opts.Metrics != nil {
		r.Use(Metrics(opts.Metrics))
	}

	corsCfg := cors.DefaultConfig()
	if allowsAnyOrigin(opts.AllowOrigins) {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = opts.AllowOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, requestIDHeader)
	corsCfg.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	catalog := NewCatalogHandler(services.Catalog)
	submissions := NewSubmissionHandler(services.Submissions, services.Reports)
	ws := NewWSHandler(services.Reports, opts.Log)

	api := r.Group("/api/v1")
	{
		api.POST("/quizzes", catalog.CreateQuiz)
		api.GET("/quizzes", catalog.ListQuizzes)
		api.GET("/quizzes/:id", catalog.GetQuiz)
		api.PATCH("/quizzes/:id", catalog.UpdateQuiz)
		api.PUT("/quizzes/:id", catalog.UpdateQuiz)
		api.DELETE("/quizzes/:id", catalog.DeleteQuiz)
		api.POST("/quizzes/:id/questions", catalog.CreateQuestion)

		api.GET("/questions/:id", catalog.GetQuestion)
		api.PATCH("/questions/:id", catalog.UpdateQuestion)
		api.PUT("/questions/:id", catalog.UpdateQuestion)
		api.DELETE("/questions/:id", catalog.DeleteQuestion)

		api.PUT("/options/:id", catalog.UpdateOption)
		api.DELETE("/options/:id", catalog.DeleteOption)

		api.POST("/submissions", submissions.Submit)
		api.GET("/users/:user/results", submissions.UserResults)
	}
	r.GET("/ws/users/:user/results", ws.ServeReport)

	return r
}

func allowsAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
