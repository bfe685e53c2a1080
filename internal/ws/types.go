package ws

import (
	"encoding/json"

	"tasklists/internal/categorize"
	"tasklists/internal/domain"
)

const (
	// client - server
	MsgSubscribeList      = "subscribe_list"
	MsgSubscribeDashboard = "subscribe_dashboard"
	MsgUnsubscribe        = "unsubscribe"
	MsgPing               = "ping"

	// server - client
	MsgReady      = "ready"
	MsgSubscribed = "subscribed"
	MsgListView   = "list_view"
	MsgDashboard  = "dashboard"
	MsgPong       = "pong"
	MsgError      = "error"
)

// Inbound is any message a client sends.
type Inbound struct {
	Type   string `json:"type"`
	ListID string `json:"list_id,omitempty"`
	Date   string `json:"date,omitempty"` // YYYY-MM-DD or "all"
	TZ     string `json:"tz,omitempty"`
	SubID  string `json:"sub_id,omitempty"`
}

type subscribedMsg struct {
	Type  string `json:"type"`
	SubID string `json:"sub_id"`
	Kind  string `json:"kind"`
}

type listViewMsg struct {
	Type    string                      `json:"type"`
	SubID   string                      `json:"sub_id"`
	Deleted bool                        `json:"deleted,omitempty"`
	List    *domain.TaskList            `json:"list,omitempty"`
	View    *categorize.ListView        `json:"view,omitempty"`
	States  map[string]categorize.State `json:"states,omitempty"`
	Date    string                      `json:"date,omitempty"`
}

type dashboardMsg struct {
	Type  string                   `json:"type"`
	SubID string                   `json:"sub_id"`
	View  categorize.DashboardView `json:"view"`
}

type errorMsg struct {
	Type  string `json:"type"`
	SubID string `json:"sub_id,omitempty"`
	Error string `json:"error"`
}

func encode(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func simple(msgType string) []byte {
	return encode(struct {
		Type string `json:"type"`
	}{Type: msgType})
}
