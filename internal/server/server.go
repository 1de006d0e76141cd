// Package server exposes the encoder and decoder over HTTP.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/andresmejia3/pixelvault/pkg/stego"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Server struct {
	engine  *gin.Engine
	encoder *stego.Encoder
	decoder *stego.Decoder
}

// New builds the router. cfg applies to every request; progress reporting
// is dropped.
func New(cfg stego.Config) (*Server, error) {
	cfg.Progress = nil
	enc, err := stego.NewEncoder(cfg)
	if err != nil {
		return nil, err
	}
	dec, err := stego.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{encoder: enc, decoder: dec}
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())

	v1 := r.Group("/api/v1")
	v1.POST("/insert", s.insertHandler)
	v1.POST("/retrieve", s.retrieveHandler)
	v1.POST("/capacity", s.capacityHandler)

	s.engine = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on port until the server fails.
func (s *Server) Run(port string) error {
	log.Info().Str("port", port).Msg("Starting server")
	return s.engine.Run(fmt.Sprintf(":%s", port))
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		latency := time.Since(start)
		if latency > time.Minute {
			latency = latency.Truncate(time.Second)
		}
		status := ctx.Writer.Status()
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Int("status_code", status).
			Dur("latency", latency).
			Str("request_size", humanize.Bytes(uint64(max(ctx.Request.ContentLength, 0)))).
			Str("response_size", humanize.Bytes(uint64(max(ctx.Writer.Size(), 0)))).
			Str("client_ip", ctx.ClientIP()).
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Str("error", ctx.Errors.ByType(gin.ErrorTypePrivate).String()).
			Msg("Request handled")
	}
}
