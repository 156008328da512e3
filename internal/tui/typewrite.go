package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/kevelmun/portfolio/internal/terminal"
)

// Typewrite prints one command's transcript to w line by line as the
// animator reveals it. It returns once the command settles or ctx ends,
// and is meant for output that is not a terminal.
func Typewrite(ctx context.Context, w io.Writer, catalog *terminal.Catalog, category terminal.Category, opts ...terminal.Option) error {
	frames := terminal.NewLatest()
	opts = append(opts, terminal.WithInitial(category), terminal.WithObserver(frames.Push))
	anim, err := terminal.New(catalog, opts...)
	if err != nil {
		return err
	}
	defer anim.Close()

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case st := <-frames.C():
			for _, line := range st.Lines[printed:] {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			printed = len(st.Lines)
			if st.Phase != terminal.PhaseRevealing {
				return nil
			}
		}
	}
}
