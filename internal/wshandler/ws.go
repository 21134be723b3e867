package wshandler

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofiber/contrib/websocket"

	"github.com/kmalinin/dutywatch/pkg/model"
	"github.com/kmalinin/dutywatch/pkg/tracking"
)

type WebMessage struct {
	Typ  string         `json:"type"`
	Unit *model.WebUnit `json:"unit,omitempty"`
	UID  string         `json:"uid,omitempty"`
}

// JSONWsHandler pushes unit snapshots to one dashboard connection. The
// reconciler tracks what this client has seen, so a full snapshot turns
// into unit and delete messages without resending the world.
type JSONWsHandler struct {
	log    *slog.Logger
	name   string
	ws     *websocket.Conn
	ch     chan *WebMessage
	active int32

	mx  sync.Mutex
	rec *tracking.Reconciler[struct{}]
}

func NewHandler(log *slog.Logger, name string, ws *websocket.Conn) *JSONWsHandler {
	h := &JSONWsHandler{
		log:    log.With("client", name),
		name:   name,
		ws:     ws,
		ch:     make(chan *WebMessage, 10),
		active: 1,
	}

	h.rec = tracking.NewReconciler[struct{}](h)

	return h
}

func (w *JSONWsHandler) IsActive() bool {
	return w != nil && atomic.LoadInt32(&w.active) == 1
}

func (w *JSONWsHandler) stop() {
	if atomic.CompareAndSwapInt32(&w.active, 1, 0) {
		close(w.ch)
		w.ws.Close()
	}
}

func (w *JSONWsHandler) writer() {
	for item := range w.ch {
		if !w.IsActive() {
			return
		}

		if item == nil {
			continue
		}

		_ = w.ws.WriteJSON(item)
	}
}

func (w *JSONWsHandler) reader() {
	defer w.stop()

	for {
		_, _, err := w.ws.ReadMessage()

		if err != nil {
			w.log.Debug("error on read", slog.Any("error", err))

			return
		}
	}
}

func (w *JSONWsHandler) send(msg *WebMessage) {
	select {
	case w.ch <- msg:
	default:
	}
}

// SendUnit forwards one decorated unit. Safe to use as a change callback,
// a false return unsubscribes the closed client.
func (w *JSONWsHandler) SendUnit(u *model.WebUnit) bool {
	if w == nil || !w.IsActive() {
		return false
	}

	w.mx.Lock()
	defer w.mx.Unlock()

	w.rec.Upsert(u)

	return true
}

func (w *JSONWsHandler) DeleteUnit(uid string) bool {
	if w == nil || !w.IsActive() {
		return false
	}

	w.mx.Lock()
	defer w.mx.Unlock()

	w.rec.Drop(uid)

	return true
}

// Reconcile brings the client to the given full snapshot, removing
// anything the feed no longer contains.
func (w *JSONWsHandler) Reconcile(snapshot []*model.WebUnit) bool {
	if w == nil || !w.IsActive() {
		return false
	}

	w.mx.Lock()
	defer w.mx.Unlock()

	w.rec.Apply(snapshot)

	return true
}

func (w *JSONWsHandler) Create(u *model.WebUnit) struct{} {
	w.send(&WebMessage{Typ: "unit", Unit: u})

	return struct{}{}
}

func (w *JSONWsHandler) Update(h struct{}, u *model.WebUnit) struct{} {
	w.send(&WebMessage{Typ: "unit", Unit: u})

	return h
}

func (w *JSONWsHandler) Remove(uid string, _ struct{}) {
	w.send(&WebMessage{Typ: "delete", UID: uid})
}

func (w *JSONWsHandler) closehandler(code int, text string) error {
	w.log.Info(fmt.Sprintf("closed with code %d, msg %s", code, text))
	w.stop()

	return nil
}

func (w *JSONWsHandler) Listen() {
	w.log.Debug("ws start")
	w.ws.SetCloseHandler(w.closehandler)

	go w.writer()
	w.reader()
	w.log.Debug("ws stop")
}
