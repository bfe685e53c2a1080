package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

// Smoke test against a running server: sign up, subscribe to the default
// list over /ws, add a task over HTTP and wait for the pushed view.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := "http://127.0.0.1:" + port

	email := "smoke+" + strconv.FormatInt(time.Now().UnixNano(), 10) + "@example.com"
	var sess struct {
		Token string `json:"token"`
	}
	post(base+"/api/v1/auth/signup", "", map[string]string{
		"email": email, "password": "smoke123", "confirm_password": "smoke123", "display_name": "Smoke",
	}, &sess)

	var lists struct {
		Lists []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"lists"`
	}
	get(base+"/api/v1/lists", sess.Token, &lists)
	if len(lists.Lists) == 0 {
		log.Fatal("no default list")
	}
	listID := lists.Lists[0].ID
	log.Printf("default list %q id=%s", lists.Lists[0].Title, listID)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, sess.Token), nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(conn, "ready")
	if err := conn.WriteJSON(map[string]string{"type": "subscribe_list", "list_id": listID, "date": "all"}); err != nil {
		log.Fatalf("subscribe: %v", err)
	}
	waitFor(conn, "subscribed")
	waitFor(conn, "list_view")

	post(base+"/api/v1/lists/"+listID+"/tasks", sess.Token, map[string]any{
		"title": "smoke task", "complete_by": time.Now().Add(24 * time.Hour).UnixMilli(),
	}, nil)

	msg := waitFor(conn, "list_view")
	log.Printf("got: %s", msg)
	log.Println("smoke test finished")
}

func waitFor(conn *websocket.Conn, msgType string) []byte {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read waiting for %s: %v", msgType, err)
		}
		var obj map[string]any
		_ = json.Unmarshal(msg, &obj)
		if t, ok := obj["type"].(string); ok && t == msgType {
			return msg
		}
	}
	log.Fatalf("timed out waiting for %s", msgType)
	return nil
}

func post(url, token string, body, out any) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	call(req, token, out)
}

func get(url, token string, out any) {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	call(req, token, out)
}

func call(req *http.Request, token string, out any) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		log.Fatalf("%s %s: status %d", req.Method, req.URL, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("decode %s: %v", req.URL, err)
		}
	}
}
