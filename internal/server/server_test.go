package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
	"github.com/BastardoSenpai/BootlegXCom/internal/infrastructure/storage"
	"github.com/BastardoSenpai/BootlegXCom/internal/mission"
	"github.com/BastardoSenpai/BootlegXCom/internal/network"
	"github.com/BastardoSenpai/BootlegXCom/internal/version"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type memoryStore struct {
	mu    sync.Mutex
	saved []string
}

func (m *memoryStore) Save(_ context.Context, name string, _ engine.BattleSnapshot) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, name)
	return uint(len(m.saved)), nil
}

func (m *memoryStore) List(_ context.Context, _ int) ([]storage.SnapshotRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]storage.SnapshotRecord, len(m.saved))
	for i, name := range m.saved {
		out[i] = storage.SnapshotRecord{ID: uint(i + 1), Name: name}
	}
	return out, nil
}

func unit(id string, team domain.Team, x, y int) *domain.Unit {
	u := domain.NewUnit(domain.UnitID(id), id, team)
	u.Pos = domain.Position{X: x, Y: y}
	u.Weapon = &domain.Weapon{Name: "Rifle", Type: domain.WeaponAssaultRifle, MinDamage: 3, MaxDamage: 5}
	return u
}

// newTestServer поднимает бой, сессию и httptest сервер
func newTestServer(t *testing.T, store SnapshotStore) (*httptest.Server, *network.Broadcaster) {
	t.Helper()

	hub := network.NewBroadcaster()
	cfg := engine.NewConfig()
	cfg.Seed = 7

	units := []*domain.Unit{
		unit("p1", domain.TeamPlayer, 0, 0),
		unit("p2", domain.TeamPlayer, 0, 2),
		unit("boss", domain.TeamEnemy, 11, 11),
	}
	setup := mission.Setup{Type: domain.MissionBossEncounter, TurnBudget: 10, BossID: "boss"}
	b, err := engine.NewBattle(cfg, domain.NewGrid(12, 12, 1), units, setup, hub)
	require.NoError(t, err)

	session := engine.NewSession(b)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = session.Run(ctx)
		close(done)
	}()

	ts := httptest.NewServer(New(session, hub, store, "0").Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return ts, hub
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil читает события, пока не встретит нужный тип
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) (api.ServerEvent, []string) {
	t.Helper()
	var seen []string
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var ev api.ServerEvent
		require.NoError(t, conn.ReadJSON(&ev))
		seen = append(seen, ev.Type)
		if ev.Type == msgType {
			return ev, seen
		}
	}
}

func stateOf(t *testing.T, ev api.ServerEvent) api.ServerResponse {
	t.Helper()
	raw, err := json.Marshal(ev.Payload)
	require.NoError(t, err)
	var st api.ServerResponse
	require.NoError(t, json.Unmarshal(raw, &st))
	return st
}

func TestWebsocket_HandshakeAndCommands(t *testing.T) {
	ts, hub := newTestServer(t, nil)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(api.ClientCommand{Token: "alice"}))

	first, _ := readUntil(t, conn, "STATE")
	st := stateOf(t, first)
	require.NotEmpty(t, st.ActiveUnitID)
	assert.Len(t, st.Units, 3)
	assert.True(t, hub.HasSubscriber("alice"))

	// Неизвестное действие возвращается только этому клиенту как ERROR
	require.NoError(t, conn.WriteJSON(api.ClientCommand{Token: st.ActiveUnitID, Action: "DANCE"}))
	errEv, _ := readUntil(t, conn, "ERROR")
	raw, _ := json.Marshal(errEv.Payload)
	var view api.ErrorView
	require.NoError(t, json.Unmarshal(raw, &view))
	assert.Equal(t, "DANCE", view.Action)
	assert.Contains(t, view.Error, "illegal action")

	// Завершение хода рассылается событиями, затем приходит свежий STATE
	require.NoError(t, conn.WriteJSON(api.ClientCommand{Token: st.ActiveUnitID, Action: "END_TURN"}))
	_, seen := readUntil(t, conn, "STATE")
	assert.Contains(t, seen, "TURN_ENDED")
}

func TestWebsocket_DisconnectReleasesSubscription(t *testing.T) {
	ts, hub := newTestServer(t, nil)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(api.ClientCommand{Token: "bob"}))
	readUntil(t, conn, "STATE")
	require.True(t, hub.HasSubscriber("bob"))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return !hub.HasSubscriber("bob") }, 2*time.Second, 10*time.Millisecond)
}

func TestClient_ForwarderExitsWhenWriterIsGone(t *testing.T) {
	hub := network.NewBroadcaster()
	c := &Client{Hub: hub, ID: "carol", Send: make(chan api.ServerEvent, 1), done: make(chan struct{})}
	updates := hub.Register(c.ID)

	exited := make(chan struct{})
	go func() {
		c.forward(updates)
		close(exited)
	}()

	// Никто не читает Send: первый кадр ложится в буфер, на втором форвардер ждет
	for i := 0; i < 5; i++ {
		hub.Broadcast(api.ServerEvent{Type: "TURN_ENDED", Round: i})
	}
	require.Eventually(t, func() bool { return len(c.Send) == 1 }, time.Second, 5*time.Millisecond)

	c.stop()
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("forwarder is stuck on a full Send channel")
	}
	assert.False(t, hub.HasSubscriber("carol"))

	// Send закрыт, остаток буфера вычитывается
	_, ok := <-c.Send
	assert.True(t, ok)
	_, ok = <-c.Send
	assert.False(t, ok)
}

func TestWebsocket_DisconnectDuringBroadcast(t *testing.T) {
	ts, hub := newTestServer(t, nil)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(api.ClientCommand{Token: "dave"}))
	readUntil(t, conn, "STATE")

	stopFlood := make(chan struct{})
	flooded := make(chan struct{})
	go func() {
		defer close(flooded)
		for i := 0; ; i++ {
			select {
			case <-stopFlood:
				return
			default:
				hub.Broadcast(api.ServerEvent{Type: "ROUND_STARTED", Round: i})
				time.Sleep(time.Millisecond)
			}
		}
	}()

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return !hub.HasSubscriber("dave") }, 2*time.Second, 10*time.Millisecond)
	close(stopFlood)
	<-flooded
}

func TestHTTP_HealthAndVersion(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp2, err := http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var info map[string]interface{}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&info))
	assert.EqualValues(t, version.Protocol, info["protocol"])
	assert.Contains(t, info, "release")
}

func TestDebug_Routes(t *testing.T) {
	store := &memoryStore{}
	ts, _ := newTestServer(t, store)

	t.Run("queue", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/debug/queue")
		require.NoError(t, err)
		defer resp.Body.Close()
		var dump []map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&dump))
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	})

	t.Run("snapshot", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/debug/snapshot")
		require.NoError(t, err)
		defer resp.Body.Close()
		var snap engine.BattleSnapshot
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
		assert.Equal(t, int64(7), snap.Seed)
		assert.Len(t, snap.Units, 3)
	})

	t.Run("save requires POST", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/debug/save")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("save", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/debug/save?name=alpha", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "alpha", out["name"])
		assert.Equal(t, float64(1), out["id"])
	})

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/debug/snapshots")
		require.NoError(t, err)
		defer resp.Body.Close()
		var recs []storage.SnapshotRecord
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&recs))
		require.Len(t, recs, 1)
		assert.Equal(t, "alpha", recs[0].Name)
	})
}

func TestDebug_SaveWithoutStorage(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/debug/save", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
