package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) (string, map[string]interface{}) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &env))
	return env.Type, env.Data
}

func TestWebSocketReceivesQuestionEvents(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.g)
	defer srv.Close()

	conn := dialWS(t, srv)

	resp, err := http.Post(srv.URL+"/v1/questions", "application/json",
		strings.NewReader(`{"message": "live one", "is_escalated": true, "guest_name": "Dana"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	typ, data := readEvent(t, conn)
	require.Equal(t, "new_question", typ)
	require.Equal(t, "live one", data["message"])

	typ, data = readEvent(t, conn)
	require.Equal(t, "urgent_question", typ)
	require.Equal(t, "Dana", data["guest_name"])
	require.Equal(t, "live one", data["message"])
}

func TestWebSocketReceivesAnswerAndVoteEvents(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t, "admin", "admin@example.com")
	srv := httptest.NewServer(s.g)
	defer srv.Close()

	qid := s.createQuestion(t, `{"message": "q"}`)
	aid := s.createAnswer(t, qid, `{"message": "a"}`)

	conn := dialWS(t, srv)

	w := s.do(t, http.MethodPost,
		fmt.Sprintf("/v1/questions/%d/answers/%d/rate", qid, aid),
		`{"vote": "up"}`, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	typ, data := readEvent(t, conn)
	require.Equal(t, "answer_rated", typ)
	require.EqualValues(t, aid, data["answer_id"])
	require.EqualValues(t, 1, data["upvotes"])
	require.EqualValues(t, 1, data["score"])
}

func TestWebSocketDisconnectedClientDoesNotStallOthers(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.g)
	defer srv.Close()

	gone := dialWS(t, srv)
	stays := dialWS(t, srv)
	require.Eventually(t, func() bool { return s.hub.Count() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, gone.Close())
	require.Eventually(t, func() bool { return s.hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	s.createQuestion(t, `{"message": "still delivered"}`)

	typ, data := readEvent(t, stays)
	require.Equal(t, "new_question", typ)
	require.Equal(t, "still delivered", data["message"])
}
