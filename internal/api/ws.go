package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/meokisama/toolkit-engine-sub005/internal/services/progress"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for WebSocket
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const wsPingInterval = 10 * time.Second

// handleProgressWS streams progress events as JSON frames. Optional query
// parameters: "topic" narrows to one operation feed, "projectId" filters to
// one project.
func (s *Server) handleProgressWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Warning: websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	filter := r.URL.Query().Get("projectId")
	topics := progress.AllTopics
	if topic := r.URL.Query().Get("topic"); topic != "" {
		topics = []progress.Topic{progress.Topic(topic)}
	}

	events := make(chan progress.Event, 64)
	done := make(chan struct{})

	var subs []*progress.Subscriber
	for _, topic := range topics {
		sub := s.feed.Subscribe(topic, filter, 16)
		subs = append(subs, sub)
		go func(sub *progress.Subscriber) {
			for event := range sub.Channel {
				select {
				case events <- event:
				case <-done:
					return
				}
			}
		}(sub)
	}
	defer func() {
		for _, sub := range subs {
			s.feed.Unsubscribe(sub)
		}
	}()

	// Reader goroutine: detect client close.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
