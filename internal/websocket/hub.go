package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/drills"
	"github.com/dushyantrajotia/NCC-AI-Trainer/internal/pose"
)

// Hub управляет WebSocket соединениями живого режима.
// Живой режим - вырожденный случай конвейера оценки: ровно один кадр
// на сообщение, без сессии и кумулятивной агрегации.
type Hub struct {
	// Зарегистрированные клиенты
	clients map[*Client]bool

	// Канал для регистрации клиентов
	register chan *Client

	// Канал для отмены регистрации клиентов
	unregister chan *Client

	// Мютекс для безопасной работы с картой клиентов
	mu sync.RWMutex
}

// Client представляет WebSocket клиента живого режима
type Client struct {
	hub *Hub

	// WebSocket соединение
	conn *websocket.Conn

	// Буферизованный канал исходящих сообщений
	send chan []byte

	// Оценщик дрилла, выбранного при подключении
	evaluator drills.Evaluator
}

// LiveFrame - один кадр ключевых точек от клиента
type LiveFrame struct {
	Frame pose.RawFrame `json:"frame"`
}

// LiveEvaluation - покадровый ответ живого режима
type LiveEvaluation struct {
	Drill      drills.Drill           `json:"drill"`
	Evaluation drills.FrameEvaluation `json:"evaluation"`

	// OK - в кадре нет ни одной проваленной проверки
	OK bool `json:"ok"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене следует проверять домен
		return true
	},
}

// NewHub создает новый Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run запускает Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("[WEBSOCKET] Client registered: %p, drill: %s", client, client.evaluator.Drill())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[WEBSOCKET] Client unregistered: %p", client)
		}
	}
}

// ClientCount возвращает число подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket обрабатывает WebSocket соединения живого режима.
// Тип приема задается параметром запроса drill и фиксируется на все
// время соединения.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	drill, err := drills.ParseDrill(r.URL.Query().Get("drill"))
	if err != nil {
		http.Error(w, `{"error": "Unknown drill type"}`, http.StatusBadRequest)
		return
	}

	evaluator, err := drills.NewEvaluator(drill)
	if err != nil {
		http.Error(w, `{"error": "Unknown drill type"}`, http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ERROR] Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		evaluator: evaluator,
	}

	client.hub.register <- client

	// Запускаем горутины для клиента
	go client.writePump()
	go client.readPump()
}

// readPump читает кадры от клиента и отвечает покадровой оценкой
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ERROR] WebSocket error: %v", err)
			}
			break
		}

		var frame LiveFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Printf("[WARN] Failed to parse live frame: %v", err)
			continue
		}

		eval := c.evaluator.Evaluate(frame.Frame)
		response := LiveEvaluation{
			Drill:      c.evaluator.Drill(),
			Evaluation: eval,
			OK:         eval.Status == drills.EvalOK && len(eval.FailPoints) == 0,
		}

		message, err := json.Marshal(response)
		if err != nil {
			log.Printf("[ERROR] Failed to marshal live evaluation: %v", err)
			continue
		}

		select {
		case c.send <- message:
		default:
			log.Printf("[WARN] Send buffer full, dropping evaluation")
		}
	}
}

// writePump отправляет сообщения клиенту
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("[ERROR] Failed to write message: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
