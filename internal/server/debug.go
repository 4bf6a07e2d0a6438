package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
	"github.com/BastardoSenpai/BootlegXCom/internal/infrastructure/storage"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SnapshotStore - то, что нужно отладочным роутам от хранилища
type SnapshotStore interface {
	Save(ctx context.Context, name string, snap engine.BattleSnapshot) (uint, error)
	List(ctx context.Context, limit int) ([]storage.SnapshotRecord, error)
}

// DebugHandler предоставляет доступ к внутреннему состоянию боя.
// Все чтения идут через сессию, поэтому не гоняются с ходами.
type DebugHandler struct {
	Session *engine.Session
	Store   SnapshotStore
}

func NewDebugHandler(s *engine.Session, store SnapshotStore) *DebugHandler {
	return &DebugHandler{Session: s, Store: store}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/state", h.handleState)
	mux.HandleFunc("/debug/snapshot", h.handleSnapshot)
	mux.HandleFunc("/debug/queue", h.handleTurnQueue)
	mux.HandleFunc("/debug/save", h.handleSave)
	mux.HandleFunc("/debug/snapshots", h.handleListSnapshots)
}

// /debug/state - то же, что видит клиент
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := h.Session.State(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, st)
}

// /debug/snapshot - полный снимок, включая скрытые поля AI
func (h *DebugHandler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Session.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap)
}

// /debug/queue - кто еще ходит в этом раунде
func (h *DebugHandler) handleTurnQueue(w http.ResponseWriter, r *http.Request) {
	dump, err := h.Session.QueueDump(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if dump == nil {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, dump)
}

// POST /debug/save?name=alpha - сохранить снимок в хранилище
func (h *DebugHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if h.Store == nil {
		http.Error(w, "storage disabled", http.StatusServiceUnavailable)
		return
	}

	snap, err := h.Session.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "manual"
	}
	id, err := h.Store.Save(r.Context(), name, snap)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"component": "debug", "name": name}).WithError(err).Error("Save failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{"id": id, "name": name, "round": snap.Round})
}

// /debug/snapshots?limit=10 - список сохранений
func (h *DebugHandler) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		http.Error(w, "storage disabled", http.StatusServiceUnavailable)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := h.Store.List(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(recs) == 0 {
		writeJSON(w, nil)
		return
	}
	writeJSON(w, recs)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// nil (пустая очередь) отдаем как [], а не null
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}

	_ = json.NewEncoder(w).Encode(data)
}
