package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prelanding-studio/internal/models"
)

// Темы и типы сообщений
const (
	TopicScenarios          = "scenarios"
	EventScenariosUpdated   = "scenarios.updated"
	defaultClientSendBuffer = 64
)

var (
	ErrHubStopped = errors.New("notify hub is stopped")
	ErrQueueFull  = errors.New("notify broadcast queue is full")
)

// Message - сообщение, отправляемое браузеру.
type Message struct {
	Type    string `json:"type"`
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

type envelope struct {
	topic string
	data  []byte
}

// Hub управляет WebSocket-клиентами и рассылает им уведомления по темам.
type Hub struct {
	logger     *zap.Logger
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	done       chan struct{}

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub создает хаб. Цикл обработки запускается через Run.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:     logger.Named("NotifyHub"),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 16),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
	}
}

// Run обрабатывает регистрацию, отключение и рассылку до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Notify hub started")
	defer func() {
		close(h.done)
		h.logger.Info("Notify hub stopped")
	}()
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			h.mu.Unlock()
			h.logger.Debug("Client registered", zap.String("clientID", c.ID))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.ID]; ok {
				delete(h.clients, c.ID)
				close(c.send)
				h.logger.Debug("Client unregistered", zap.String("clientID", c.ID))
			}
			h.mu.Unlock()

		case env := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				if !c.subscribed(env.topic) {
					continue
				}
				select {
				case c.send <- env.data:
				default:
					h.logger.Warn("Client send queue is full, dropping message", zap.String("clientID", c.ID))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish ставит сообщение в очередь рассылки без ожидания.
// Если хаб остановлен или очередь заполнена, сообщение отбрасывается с ошибкой.
func (h *Hub) Publish(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification %s: %w", msg.Type, err)
	}
	return h.enqueue(envelope{topic: msg.Topic, data: data})
}

func (h *Hub) enqueue(env envelope) error {
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}
	select {
	case h.broadcast <- env:
		return nil
	default:
		return ErrQueueFull
	}
}

// ScenariosUpdated - подписчик менеджера сценариев: рассылает свежий список.
// Менеджер не блокируется, даже если хаб не успевает.
func (h *Hub) ScenariosUpdated(list []models.Scenario) {
	if list == nil {
		list = []models.Scenario{}
	}
	err := h.Publish(Message{Type: EventScenariosUpdated, Topic: TopicScenarios, Payload: list})
	if err != nil {
		h.logger.Warn("Scenarios notification dropped", zap.Int("count", len(list)), zap.Error(err))
	}
}

// ClientCount - количество подключённых клиентов.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func newClientID() string { return uuid.NewString() }
