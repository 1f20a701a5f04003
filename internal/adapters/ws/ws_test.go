package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/codeduel/arena/internal/adapters/ws"
	"github.com/codeduel/arena/internal/hub"
	"github.com/codeduel/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/school"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readEvent(conn *websocket.Conn, timeout time.Duration) (map[string]any, error) {
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var got map[string]any
	if err := json.Unmarshal(payload, &got); err != nil {
		return nil, err
	}
	return got, nil
}

func TestServeSchool(t *testing.T) {
	Convey("Given a websocket server over a hub", t, func() {
		h := hub.New(hub.WithEmitInterval(10 * time.Millisecond))
		defer h.Close()

		srv := httptest.NewServer(newMux(h))
		defer srv.Close()

		Convey("When a monitor connects and joins a room", func() {
			conn := dial(t, srv)
			defer conn.Close()

			err := conn.WriteJSON(map[string]string{
				"type":   "join-monitor",
				"examId": "exam-101",
			})
			So(err, ShouldBeNil)

			Convey("Then student events should stream in", func() {
				got, err := readEvent(conn, 2*time.Second)
				So(err, ShouldBeNil)
				So(got["type"], ShouldEqual, "student-event")
				So(got["studentId"], ShouldStartWith, "student-")
				So(got["severity"], ShouldEqual, "warning")
				So(got["timestamp"], ShouldNotBeEmpty)
			})
		})

		Convey("When a monitor never joins a room", func() {
			conn := dial(t, srv)
			defer conn.Close()

			Convey("Then no events should arrive", func() {
				_, err := readEvent(conn, 200*time.Millisecond)
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a monitor sends garbage", func() {
			conn := dial(t, srv)
			defer conn.Close()

			So(conn.WriteMessage(websocket.TextMessage, []byte("{nope")), ShouldBeNil)
			So(conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"mystery"}`)), ShouldBeNil)

			err := conn.WriteJSON(map[string]string{
				"type":   "join-monitor",
				"examId": "exam-101",
			})
			So(err, ShouldBeNil)

			Convey("Then the connection should survive and still join", func() {
				got, err := readEvent(conn, 2*time.Second)
				So(err, ShouldBeNil)
				So(got["type"], ShouldEqual, "student-event")
			})
		})

		Convey("When a monitor disconnects", func() {
			conn := dial(t, srv)
			err := conn.WriteJSON(map[string]string{
				"type":   "join-monitor",
				"examId": "exam-101",
			})
			So(err, ShouldBeNil)

			// Wait until the join has landed.
			_, err = readEvent(conn, 2*time.Second)
			So(err, ShouldBeNil)

			conn.Close()

			Convey("Then the hub should drop the monitor and its room", func() {
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					if h.MonitorCount() == 0 && h.RoomCount() == 0 {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				So(h.MonitorCount(), ShouldEqual, 0)
				So(h.RoomCount(), ShouldEqual, 0)
			})
		})
	})
}

func newMux(h *hub.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/school", ws.NewServer(h).ServeSchool)
	return mux
}
