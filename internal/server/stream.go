package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kevelmun/portfolio/internal/terminal"
)

// frame is the payload of one "frame" server-sent event.
type frame struct {
	Category terminal.Category `json:"category"`
	Lines    []string          `json:"lines"`
	Running  bool              `json:"running"`
	Prompt   bool              `json:"prompt"`
	Version  uint64            `json:"version"`
}

func newFrame(st terminal.State) frame {
	return frame{
		Category: st.Category,
		Lines:    st.Lines,
		Running:  st.Running,
		Prompt:   st.ShowPrompt(),
		Version:  st.Version,
	}
}

// streamTerminal plays one command as server-sent events. Each event
// carries the full transcript so far; the stream ends once the command
// settles or the client goes away.
func (s *Server) streamTerminal(c *gin.Context) {
	category := terminal.Category(c.DefaultQuery("category", string(s.catalog.Default())))
	if _, ok := s.catalog.Lookup(category); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": terminal.ErrUnknownCategory.Error()})
		return
	}

	states := terminal.NewLatest()
	anim, err := terminal.New(s.catalog,
		terminal.WithClock(s.clock),
		terminal.WithPeriod(s.cfg.TypingPeriod),
		terminal.WithInitial(category),
		terminal.WithObserver(states.Push),
		terminal.WithLogger(s.logger),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer anim.Close()

	if c.GetHeader("DNT") != "1" {
		at := s.clock.Now()
		s.goBackground("record terminal view", func(ctx context.Context) error {
			return s.store.RecordTerminalView(ctx, string(category), at)
		})
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	// New already published the header frame.
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case st := <-states.C():
			c.SSEvent("frame", newFrame(st))
			c.Writer.Flush()
			if st.Phase != terminal.PhaseRevealing {
				return
			}
		}
	}
}
