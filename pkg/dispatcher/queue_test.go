package dispatcher

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/wiredispatch/pkg/request"
)

func TestQueueRunsInPostOrder(t *testing.T) {
	q := NewQueue(4)

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 50; i++ {
		i := i
		if !q.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}) {
			t.Fatalf("post %d rejected", i)
		}
	}
	q.Close()

	if len(got) != 50 {
		t.Fatalf("expected 50 tasks to run, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task order broken at %d: %v", i, got)
		}
	}
}

func TestQueueRejectsAfterClose(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	if q.Post(func() {}) {
		t.Fatalf("expected post after close to be rejected")
	}
	q.Close()
}

func TestQueueRejectsNil(t *testing.T) {
	q := NewQueue(0)
	defer q.Close()
	if q.Post(nil) {
		t.Fatalf("expected nil task to be rejected")
	}
	var nilQueue *Queue
	if nilQueue.Post(func() {}) {
		t.Fatalf("expected nil queue to reject posts")
	}
}

func TestQueueCloseFromInsideTask(t *testing.T) {
	q := NewQueue(2)
	done := make(chan struct{})
	if !q.Post(func() {
		q.Close()
		close(done)
	}) {
		t.Fatalf("post rejected")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close inside a task never returned")
	}
	if q.Post(func() {}) {
		t.Fatalf("expected post after close to be rejected")
	}
	q.Close()
}

func TestDispatcherCloseFromCompletion(t *testing.T) {
	d := New(&fakeTransport{resp: fakeResponse{statusCode: http.StatusOK, body: []byte(`{}`)}}, Options{})

	done := make(chan struct{})
	Execute(d, request.Descriptor{Host: "http://h"}, false, func(apiResponse, error) {
		d.Close()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close inside a completion never returned")
	}
	d.Close()
}
