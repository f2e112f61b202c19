package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/districtnews/ingest/app/fetch"
)

const proberFeedXML = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>T</title>
<item><title>Probe story</title><link>https://example.com/news/probe-1</link></item>
</channel></rss>`

func TestProberFindsWellKnownEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rss.xml":
			w.Write([]byte(proberFeedXML))
		case "/rss":
			// HTML error page with a 200 status; the sniff must reject it
			w.Write([]byte("<html><body>not found</body></html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	prober := NewProber(fetch.NewClient("DistrictBot/test"), NewParser())
	entries := prober.Run(context.Background(), "", server.URL, 2*time.Second)

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry from probed feed, got %d", len(entries))
	}
	if entries[0].Title != "Probe story" {
		t.Errorf("Unexpected entry title: %s", entries[0].Title)
	}
}

func TestProberPrefersConfiguredFeedURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/custom/feed" {
			w.Write([]byte(proberFeedXML))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	prober := NewProber(fetch.NewClient("DistrictBot/test"), NewParser())
	entries := prober.Run(context.Background(), server.URL+"/custom/feed", server.URL, 2*time.Second)

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry from configured feed, got %d", len(entries))
	}
}

func TestProberNoFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	prober := NewProber(fetch.NewClient("DistrictBot/test"), NewParser())
	if entries := prober.Run(context.Background(), "", server.URL, 2*time.Second); entries != nil {
		t.Errorf("Expected nil for source without feed, got %v", entries)
	}
}

func TestImageIndexLookup(t *testing.T) {
	idx := NewImageIndex([]Entry{
		{Link: "https://example.com/news/story-1/", ImageURL: "https://cdn.example.com/1.jpg"},
		{Link: "https://example.com/2024/05/deep/path/story-2", ImageURL: "https://cdn.example.com/2.jpg"},
	})

	if img := idx.Lookup("https://EXAMPLE.com/news/story-1?utm=x"); img != "https://cdn.example.com/1.jpg" {
		t.Errorf("Expected canonical match, got %q", img)
	}
	if img := idx.Lookup("https://example.com/story-2"); img != "https://cdn.example.com/2.jpg" {
		t.Errorf("Expected slug-suffix match, got %q", img)
	}
	if img := idx.Lookup("https://example.com/unrelated"); img != "" {
		t.Errorf("Expected no match, got %q", img)
	}
}
