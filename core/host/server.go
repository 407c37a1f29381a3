package host

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
)

// Server runs the message loop for one page.
type Server struct {
	Dispatcher *Dispatcher
	// OnChange is called after a message modified the page, before the
	// response is written.
	OnChange func() error
	Logger   *zap.Logger
}

// Serve reads frames from r and answers each on w until r is exhausted or
// ctx is done. Only delivery failures end the loop; everything else is
// answered with success false.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := ReadMessage(r)
		if errors.Is(err, io.EOF) {
			log.Debug("host closed the stream")
			return nil
		}
		if errors.Is(err, ErrFrameTooLarge) {
			log.Warn("rejected frame", zap.Error(err))
			if werr := WriteMessage(w, ToggleResponse{Error: err.Error()}); werr != nil {
				return werr
			}
			continue
		}
		if err != nil {
			return err
		}

		resp, changed := s.Dispatcher.Handle(ctx, raw)
		if changed && s.OnChange != nil {
			if err := s.OnChange(); err != nil {
				log.Error("cannot persist page", zap.Error(err))
				resp = withError(resp, err)
			}
		}
		if err := WriteMessage(w, resp); err != nil {
			return err
		}
	}
}

func withError(resp any, err error) any {
	switch r := resp.(type) {
	case SimplifyResponse:
		r.Success = false
		r.Error = "saving page: " + err.Error()
		return r
	case ToggleResponse:
		r.Success = false
		r.Error = "saving page: " + err.Error()
		return r
	}
	return resp
}
