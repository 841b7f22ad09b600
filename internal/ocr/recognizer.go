package ocr

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Default bounds for one recognition run. A stalled engine is common on
// low-end devices, so expiry returns whatever was gathered instead of
// failing the whole call.
const (
	DefaultStartupTimeout = 5 * time.Second
	DefaultResultTimeout  = 8 * time.Second
)

// Recognizer drives one engine session per call: start under the startup
// timeout, collect fragments until completion or the result timeout, and
// release the session on every path.
type Recognizer struct {
	Engine         Engine
	StartupTimeout time.Duration
	ResultTimeout  time.Duration
}

// NewRecognizer creates a Recognizer with default timeouts.
func NewRecognizer(engine Engine) *Recognizer {
	return &Recognizer{
		Engine:         engine,
		StartupTimeout: DefaultStartupTimeout,
		ResultTimeout:  DefaultResultTimeout,
	}
}

// Run recognizes one frame and returns the raw text fragments. A result
// timeout yields the partial fragment list with a nil error; only startup
// and engine failures are errors.
func (r *Recognizer) Run(ctx context.Context, frame Frame) ([]string, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	sess, err := r.Engine.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("create ocr session: %w", err)
	}
	defer sess.Close()

	startCtx, cancel := context.WithTimeout(ctx, r.startupTimeout())
	defer cancel()
	if err := sess.Start(startCtx); err != nil {
		return nil, fmt.Errorf("start ocr session: %w", err)
	}

	ch, err := sess.Recognize(frame)
	if err != nil {
		return nil, fmt.Errorf("run ocr: %w", err)
	}

	var fragments []string
	timer := time.NewTimer(r.resultTimeout())
	defer timer.Stop()
	for {
		select {
		case frag, ok := <-ch:
			if !ok {
				return fragments, nil
			}
			if s := strings.TrimSpace(frag); s != "" {
				fragments = append(fragments, s)
			}
		case <-timer.C:
			log.Printf("[WARN] ocr result timeout, keeping %d partial fragments", len(fragments))
			return fragments, nil
		case <-ctx.Done():
			return fragments, ctx.Err()
		}
	}
}

func (r *Recognizer) startupTimeout() time.Duration {
	if r.StartupTimeout > 0 {
		return r.StartupTimeout
	}
	return DefaultStartupTimeout
}

func (r *Recognizer) resultTimeout() time.Duration {
	if r.ResultTimeout > 0 {
		return r.ResultTimeout
	}
	return DefaultResultTimeout
}
