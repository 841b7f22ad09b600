package ocr

import (
	"context"
	"errors"
)

// MockEngine returns controllable fixed fragments for development and
// testing.
type MockEngine struct {
	Fragments    []string
	SupportedErr error
	StartErr     error
	// Stall leaves the fragment channel open after emitting Fragments,
	// forcing the recognizer's result timeout.
	Stall bool

	// Closed counts session closes, letting tests assert release.
	Closed int
}

func (m *MockEngine) Supported() error { return m.SupportedErr }

func (m *MockEngine) NewSession(_ context.Context) (Session, error) {
	return &mockSession{engine: m}, nil
}

type mockSession struct {
	engine *MockEngine
}

func (s *mockSession) Start(_ context.Context) error { return s.engine.StartErr }

func (s *mockSession) Recognize(_ Frame) (<-chan string, error) {
	ch := make(chan string, len(s.engine.Fragments))
	for _, f := range s.engine.Fragments {
		ch <- f
	}
	if !s.engine.Stall {
		close(ch)
	}
	return ch, nil
}

func (s *mockSession) Close() error {
	s.engine.Closed++
	return nil
}

// MockSource serves frames from memory.
type MockSource struct {
	Frames map[string]Frame
	Err    error
}

func (m *MockSource) Acquire(_ context.Context, ref string) (Frame, error) {
	if m.Err != nil {
		return Frame{}, m.Err
	}
	f, ok := m.Frames[ref]
	if !ok {
		return Frame{}, errInvalidRef
	}
	return f, nil
}

var errInvalidRef = errors.New("图片路径无效")
