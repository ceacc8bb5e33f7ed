package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/archer102125220/ripples"
)

func TestLoadAndKeepSharesOneFetch(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	var hits atomic.Int32
	started := make(chan struct{}, 4)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		started <- struct{}{}
		<-release
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	g := &Game{loader: &ripples.HTTPLoader{Client: srv.Client()}}
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	load := func() {
		defer wg.Done()
		_, err := g.loadAndKeep(context.Background(), srv.URL+"/bg.png", "")
		errs <- err
	}
	wg.Add(2)
	go load()
	<-started
	go load()

	// a second request would show up here if each load used its own loader
	select {
	case <-started:
	case <-time.After(200 * time.Millisecond):
	}
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("loadAndKeep() = %v", err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server saw %d requests, want one shared fetch", n)
	}
	if d := g.decoded.Load(); d == nil || (*d).Bounds().Size() != image.Pt(4, 2) {
		t.Error("decoded image not kept for the plain background")
	}
}
