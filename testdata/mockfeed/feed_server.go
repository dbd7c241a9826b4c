// feed_server.go is a minimal chat backend that serves a canned feed for
// manual testing of the proxy.
// Usage: go run feed_server.go [-addr :4000]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

type record struct {
	User string `json:"user"`
	Msg  string `json:"msg"`
	TS   int64  `json:"ts"`
}

func main() {
	addr := flag.String("addr", ":4000", "listen address")
	flag.Parse()

	mux := http.NewServeMux()

	mux.HandleFunc("/chat/history", func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Unix()
		feed := []record{
			{User: "alice", Msg: "hello everyone", TS: now - 30},
			{User: "bob", Msg: "!drop plz", TS: now - 20},
			{User: "carol", Msg: "how is it going", TS: now - 10},
			{User: "mallory", Msg: "!DROP NOW", TS: now},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(feed)
	})

	mux.HandleFunc("/lobby", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"room":"lobby","users":4}`)
	})

	log.Printf("mock feed server listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}
