package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/miraihq/mirai-interview/internal/api/handlers"
	"github.com/miraihq/mirai-interview/internal/api/middleware"
)

type Deps struct {
	Interview *handlers.InterviewHandler
	Quiz      *handlers.QuizHandler
	History   *handlers.HistoryHandler
	Knowledge *handlers.KnowledgeHandler
	Config    *handlers.ConfigHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.GET("/config", d.Config.Get)

	api := r.Group("/")
	api.Use(middleware.Identity())

	api.POST("/speak", d.Interview.Speak)
	api.GET("/audio/:artifact_id", d.Interview.Audio)

	api.GET("/generate_quiz", d.Quiz.GenerateQuiz)
	api.POST("/roadmap_quiz", d.Quiz.RoadmapQuiz)
	api.POST("/jobseeker_advice", d.Quiz.JobseekerAdvice)

	api.GET("/history", d.History.List)

	api.POST("/knowledge", d.Knowledge.AddDocument)

	// WebSocket
	api.GET("/ws/interview", d.WS.InterviewStatus)
}
