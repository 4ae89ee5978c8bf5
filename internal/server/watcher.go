package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kush-Singh-26/quire/builder/conflicts"
)

// onChange regenerates after a batch of source changes. Errors are logged,
// not returned: the previous output stays live until the sources are fixed.
func (s *Server) onChange(ctx context.Context) func(paths []string) {
	return func(paths []string) {
		if ctx.Err() != nil {
			return
		}
		s.logger.Info("⚡ Change detected", "paths", paths)

		res, err := s.Regenerate(ctx)
		if err != nil {
			var conflictErr *conflicts.ConflictError
			if errors.As(err, &conflictErr) {
				s.logger.Error("URL conflict, keeping previous output", "urls", conflictErr.URLs())
				return
			}
			s.logger.Error("Generation failed, keeping previous output", "error", err)
			return
		}
		fmt.Println(res.Metrics.String())
	}
}
