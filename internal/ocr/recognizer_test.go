package ocr

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testFrame() Frame {
	return Frame{Pixels: make([]byte, 2*2*4), Width: 2, Height: 2}
}

func TestRun_CollectsFragments(t *testing.T) {
	engine := &MockEngine{Fragments: []string{"易方达蓝筹", "  ", "10,193.48"}}
	r := NewRecognizer(engine)
	got, err := r.Run(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "易方达蓝筹" || got[1] != "10,193.48" {
		t.Errorf("unexpected fragments: %v", got)
	}
	if engine.Closed != 1 {
		t.Errorf("expected session closed once, got %d", engine.Closed)
	}
}

func TestRun_StallReturnsPartial(t *testing.T) {
	engine := &MockEngine{Fragments: []string{"部分结果"}, Stall: true}
	r := NewRecognizer(engine)
	r.ResultTimeout = 50 * time.Millisecond

	start := time.Now()
	got, err := r.Run(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("a stalled engine must not fail the call: %v", err)
	}
	if len(got) != 1 || got[0] != "部分结果" {
		t.Errorf("expected the partial fragment, got %v", got)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("result timeout did not bound the call")
	}
	if engine.Closed != 1 {
		t.Errorf("expected session closed once, got %d", engine.Closed)
	}
}

func TestRun_StartFailure(t *testing.T) {
	startErr := errors.New("引擎启动失败")
	engine := &MockEngine{StartErr: startErr}
	r := NewRecognizer(engine)
	_, err := r.Run(context.Background(), testFrame())
	if !errors.Is(err, startErr) {
		t.Fatalf("expected wrapped start error, got %v", err)
	}
	if engine.Closed != 1 {
		t.Errorf("session must be released on the failure path, got %d closes", engine.Closed)
	}
}

func TestRun_InvalidFrame(t *testing.T) {
	engine := &MockEngine{}
	r := NewRecognizer(engine)
	bad := Frame{Pixels: make([]byte, 3), Width: 2, Height: 2}
	if _, err := r.Run(context.Background(), bad); err == nil {
		t.Fatal("expected a validation error")
	}
	if engine.Closed != 0 {
		t.Errorf("no session should be opened for an invalid frame, got %d closes", engine.Closed)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	engine := &MockEngine{Stall: true}
	r := NewRecognizer(engine)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, testFrame())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGrayscale(t *testing.T) {
	f := Frame{Pixels: []byte{200, 100, 50, 255}, Width: 1, Height: 1}
	Grayscale(f)
	if f.Pixels[0] != f.Pixels[1] || f.Pixels[1] != f.Pixels[2] {
		t.Errorf("expected equal RGB after grayscale, got %v", f.Pixels)
	}
	if f.Pixels[3] != 255 {
		t.Errorf("alpha must be preserved, got %d", f.Pixels[3])
	}
}

func TestMockSource_Acquire(t *testing.T) {
	src := &MockSource{Frames: map[string]Frame{"shot.png": testFrame()}}
	if _, err := src.Acquire(context.Background(), "shot.png"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := src.Acquire(context.Background(), "missing.png"); err == nil {
		t.Error("expected an error for an unknown ref")
	}
}
