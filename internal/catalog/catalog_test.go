package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

const testPayload = `var r = [["005827","YFDLC","易方达蓝筹精选混合A","混合型","YIFANGDALANCHOUJINGXUANHUNHE"],` +
	`["161724","ZSZZBJ","招商中证白酒指数(LOF)A","指数型"],` +
	`["bad","X","坏行"],` +
	`["000000","","   "]];`

func newTestService(t *testing.T, hits *int64) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		w.Write([]byte(testPayload))
	}))
	t.Cleanup(srv.Close)
	return NewService(srv.URL), srv
}

func TestLoad_ParsesAndFilters(t *testing.T) {
	var hits int64
	s, _ := newTestService(t, &hits)
	entries, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 valid entries, got %d", len(entries))
	}
	if entries[0].FundCode != "005827" || entries[0].FundName != "易方达蓝筹精选混合A" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestLoad_MemoizedSingleFetch(t *testing.T) {
	var hits int64
	s, _ := newTestService(t, &hits)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Load(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Errorf("expected exactly 1 upstream fetch, got %d", n)
	}
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	var hits int64
	s, _ := newTestService(t, &hits)
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Invalidate()
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := atomic.LoadInt64(&hits); n != 2 {
		t.Errorf("expected 2 upstream fetches after invalidate, got %d", n)
	}
}

func TestLoad_FailureLeavesCacheEmpty(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(testPayload))
	}))
	defer srv.Close()
	s := NewService(srv.URL)

	if _, err := s.Load(context.Background()); err == nil {
		t.Fatal("expected an error from the failing upstream")
	}
	entries, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries after retry, got %d", len(entries))
	}
}

func TestSearch(t *testing.T) {
	var hits int64
	s, _ := newTestService(t, &hits)
	out, err := s.Search(context.Background(), "白酒", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].FundCode != "161724" {
		t.Errorf("unexpected search result: %+v", out)
	}
	out, err = s.Search(context.Background(), "  ", 10)
	if err != nil || out != nil {
		t.Errorf("blank keyword should return nothing, got %+v (%v)", out, err)
	}
	out, err = s.Search(context.Background(), "lof", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("Latin search should be case-insensitive, got %+v", out)
	}
}

func TestFindByCode(t *testing.T) {
	var hits int64
	s, _ := newTestService(t, &hits)
	e, err := s.FindByCode(context.Background(), "005827")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e == nil || e.FundName != "易方达蓝筹精选混合A" {
		t.Errorf("unexpected entry: %+v", e)
	}
	e, err = s.FindByCode(context.Background(), "999999")
	if err != nil || e != nil {
		t.Errorf("unknown code should return nil, got %+v (%v)", e, err)
	}
}

func TestParseList_MalformedPayload(t *testing.T) {
	if _, err := parseList([]byte("no array here")); err == nil {
		t.Error("expected an error for a payload without an array")
	}
	if _, err := parseList([]byte("var r = [not json];")); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}
