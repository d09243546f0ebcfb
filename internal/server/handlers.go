package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azharlabs/locas"
	"github.com/azharlabs/locas/pkg/logx"
	"github.com/azharlabs/locas/pkg/store"
)

type queryRequest struct {
	Query     string   `json:"query"`
	UserID    string   `json:"userId"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (s *Server) processQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "No query provided",
		})
		return
	}

	logx.Info().Str("user", req.UserID).Str("query", req.Query).Msg("processing query")

	session := s.sessionFor(req.UserID)
	result := session.Process(c.Request.Context(), req.Query, locas.ProcessOptions{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})

	switch result.Status {
	case locas.StatusWarning:
		c.JSON(http.StatusOK, gin.H{
			"status":  "warning",
			"message": "No location information found in query",
			"result":  result.Result,
		})
	case locas.StatusError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": result.Result,
		})
	default:
		s.saveResponse(c, req, result)
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"result": result.Result,
			"tool":   result.Tool,
		})
	}
}

func (s *Server) processQueryStream(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "No query provided",
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	flusher, _ := c.Writer.(http.Flusher)

	session := s.sessionFor(req.UserID)
	events := session.ProcessStream(c.Request.Context(), req.Query, locas.ProcessOptions{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})

	for ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			logx.Error().Err(err).Msg("failed to encode stream event")
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
		if flusher != nil {
			flusher.Flush()
		}
		if ev.Type == locas.EventFinal && ev.Status == locas.StatusSuccess {
			s.saveResponse(c, req, locas.QueryResult{Status: ev.Status, Result: ev.Result, Tool: ev.Tool})
		}
	}
}

func (s *Server) saveResponse(c *gin.Context, req queryRequest, result locas.QueryResult) {
	if s.store == nil {
		return
	}
	record := store.ResponseRecord{
		UserID:   req.UserID,
		Query:    req.Query,
		Response: result.Result,
	}
	if coords := s.sessionFor(req.UserID).Coordinates(); coords != nil {
		record.Latitude = coords.Latitude
		record.Longitude = coords.Longitude
	}
	if err := s.store.SaveResponse(c.Request.Context(), record); err != nil {
		logx.Error().Err(err).Msg("failed to store response")
	}
}

type userRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

func (s *Server) upsertUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.Name == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Incomplete data"})
		return
	}

	if s.store != nil {
		user := store.User{ID: req.ID, Name: req.Name, Email: req.Email, ProfilePicture: req.Image}
		if err := s.store.SaveUser(c.Request.Context(), user); err != nil {
			logx.Error().Err(err).Msg("failed to store user")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
