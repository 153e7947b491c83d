package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ccollicutt/chatlens/internal/ingest"
	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/detector"
	"github.com/ccollicutt/chatlens/pkg/output"
	"github.com/ccollicutt/chatlens/pkg/parser"
)

// defaultUploadName names raw-body uploads in reports.
const defaultUploadName = "upload.txt"

// ParseResponse is the body returned by /api/v1/parse.
type ParseResponse struct {
	ID       string           `json:"id"`
	Format   string           `json:"format"`
	Encoding string           `json:"encoding"`
	Stats    parser.Stats     `json:"stats"`
	Messages []parser.Message `json:"messages"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	start := time.Now()

	opts := s.cfg.Analysis.AnalyzerOptions(s.stopwords)
	if raw := c.Query("top_words"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(c, http.StatusBadRequest, fmt.Errorf("top_words must be a non-negative integer, got %q", raw))
			return
		}
		opts = append(opts, analyzer.WithTopWords(n))
	}
	opts = append(opts, analyzer.WithLogger(s.logger))

	chat, ok := s.parseUpload(c)
	if !ok {
		return
	}

	user := c.DefaultQuery("user", s.cfg.Analysis.User)
	result, err := analyzer.New(opts...).Analyze(c.Request.Context(), user, chat.Messages)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, fmt.Errorf("analysis failed: %w", err))
		return
	}

	report := output.NewReport(result, output.Metadata{
		ID:       c.GetString(requestIDKey),
		Sources:  chat.Names(),
		Format:   chat.Format(),
		Encoding: chat.Encoding(),
		Duration: time.Since(start),
		Parse:    chat.Stats,
	})
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleParse(c *gin.Context) {
	chat, ok := s.parseUpload(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		ID:       c.GetString(requestIDKey),
		Format:   chat.Format(),
		Encoding: chat.Encoding(),
		Stats:    chat.Stats,
		Messages: chat.Messages,
	})
}

// parseUpload reads the upload and parses it. On failure the error response
// has already been written.
func (s *Server) parseUpload(c *gin.Context) (*ingest.Chat, bool) {
	d, err := detector.ForName(c.DefaultQuery("format", s.cfg.Analysis.Format))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return nil, false
	}

	input, code, err := s.readUpload(c)
	if err != nil {
		s.fail(c, code, err)
		return nil, false
	}

	start := time.Now()
	chat := ingest.Parse([]ingest.Input{input}, d, s.logger)
	s.metrics.observeParse(chat.Format(), chat.Stats, time.Since(start).Seconds())
	return chat, true
}

// readUpload returns the chat export from a multipart "file" field or the
// raw request body, capped at the configured size.
func (s *Server) readUpload(c *gin.Context) (ingest.Input, int, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxUploadBytes)

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fh, err := c.FormFile("file")
		if err != nil {
			return ingest.Input{}, uploadErrorCode(err), fmt.Errorf("reading multipart field \"file\": %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return ingest.Input{}, http.StatusBadRequest, fmt.Errorf("opening upload: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return ingest.Input{}, uploadErrorCode(err), fmt.Errorf("reading upload: %w", err)
		}
		return ingest.Input{Name: fh.Filename, Data: data}, http.StatusOK, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ingest.Input{}, uploadErrorCode(err), fmt.Errorf("reading body: %w", err)
	}
	if len(data) == 0 {
		return ingest.Input{}, http.StatusBadRequest, errors.New("request body is empty")
	}
	return ingest.Input{Name: c.DefaultQuery("name", defaultUploadName), Data: data}, http.StatusOK, nil
}

func uploadErrorCode(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func (s *Server) fail(c *gin.Context, code int, err error) {
	s.logger.Warn("request failed", "status", code, "error", err, "request_id", c.GetString(requestIDKey))
	c.AbortWithStatusJSON(code, gin.H{
		"error":      err.Error(),
		"request_id": c.GetString(requestIDKey),
	})
}
