// Package httpapi serves a small status API next to the bot: liveness, the
// registered commands, a dry-run dispatch that never sends anything and the
// recorded command history.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ianeli1/discordrs-diy/internal/command"
	"github.com/ianeli1/discordrs-diy/internal/dispatch"
	"github.com/ianeli1/discordrs-diy/internal/storage"
)

// History is the command history the API exposes, usually *storage.Storage.
type History interface {
	Destinations() []string
	GetCommandsHistory(destination string) ([]storage.CommandHistoryRecord, error)
	ClearHistory(destination string)
	Stats() map[string]any
}

// Option configures the router.
type Option func(*server)

// WithHistory enables the /history routes and adds store stats to /healthz.
func WithHistory(h History) Option {
	return func(s *server) { s.history = h }
}

type server struct {
	d       *dispatch.Dispatcher
	history History
}

type dispatchRequest struct {
	Content string `json:"content"`
}

type commandInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Reply       string `json:"reply,omitempty"`
}

// NewRouter returns the gin engine for d.
func NewRouter(d *dispatch.Dispatcher, opts ...Option) *gin.Engine {
	s := &server{d: d}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.healthz)
	r.GET("/commands", s.commands)
	r.POST("/dispatch", s.dispatch)

	if s.history != nil {
		r.GET("/history", s.destinations)
		r.GET("/history/:destination", s.historyOf)
		r.DELETE("/history/:destination", s.clearHistory)
	}
	return r
}

func (s *server) healthz(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if s.history != nil {
		body["store"] = s.history.Stats()
	}
	c.JSON(http.StatusOK, body)
}

func (s *server) commands(c *gin.Context) {
	entries := s.d.Registry().All()
	list := make([]commandInfo, 0, len(entries))
	for _, e := range entries {
		info := commandInfo{Name: e.Name, Description: e.Command.Description()}
		if tpl, ok := command.Root(e.Command).(command.Templated); ok {
			info.Reply = tpl.Template()
		}
		list = append(list, info)
	}
	c.JSON(http.StatusOK, gin.H{
		"trigger":  s.d.Config().String(),
		"commands": list,
	})
}

// dispatch accepts any content, including an empty one, which simply does not
// match.
func (s *server) dispatch(c *gin.Context) {
	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	reply, ok := s.d.Handle(req.Content)
	c.JSON(http.StatusOK, gin.H{"matched": ok, "reply": reply})
}

func (s *server) destinations(c *gin.Context) {
	dests := s.history.Destinations()
	if dests == nil {
		dests = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"destinations": dests})
}

func (s *server) historyOf(c *gin.Context) {
	records, err := s.history.GetCommandsHistory(c.Param("destination"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

func (s *server) clearHistory(c *gin.Context) {
	s.history.ClearHistory(c.Param("destination"))
	c.Status(http.StatusNoContent)
}

// Run serves on addr until ctx is done.
func Run(ctx context.Context, addr string, d *dispatch.Dispatcher, opts ...Option) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(d, opts...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down status server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("status server shutdown")
		}
	}()

	log.Info().Str("addr", addr).Msg("Status server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
