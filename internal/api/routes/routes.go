package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeprep/internal/api/handlers"
	"github.com/yoockh/resumeprep/internal/api/middleware"
)

type Deps struct {
	Tokens middleware.TokenParser

	Resume    *handlers.ResumeHandler
	Profile   *handlers.ProfileHandler
	Interview *handlers.InterviewHandler
	Report    *handlers.ReportHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	api.POST("/resume/upload", d.Resume.Upload)
	api.GET("/resume/:resume_id/questions", d.Resume.Questions)
	api.GET("/resume/:resume_id/profile", d.Profile.Get)
	api.POST("/interview/start", d.Interview.Start)
	api.POST("/assessment/aggregate", d.Report.Aggregate)

	// Session routes (token issued by /interview/start)
	sess := api.Group("/interview/:session_id")
	sess.Use(middleware.SessionAuth(d.Tokens), middleware.RequireSessionScope())

	sess.GET("", d.Interview.Get)
	sess.DELETE("", d.Interview.Discard)
	sess.PUT("/draft", d.Interview.Draft)
	sess.POST("/answers", d.Interview.Answer)
	sess.POST("/answers/audio", d.Interview.AudioAnswer)
	sess.GET("/history", d.Interview.History)
	sess.POST("/evaluate", d.Interview.RetryEvaluation)
	sess.GET("/evaluations", d.Interview.Evaluations)
	sess.GET("/report", d.Report.Get)
	sess.GET("/report.pdf", d.Report.PDF)

	// WebSocket
	ws := r.Group("/ws/interview/:session_id")
	ws.Use(middleware.SessionAuth(d.Tokens), middleware.RequireSessionScope())
	ws.GET("", d.WS.InterviewWS)
}
