package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
	"github.com/BISWAJIT-BARAL01/FreshMart/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks

	// Timeout for one chat turn, including the understanding service round trip.
	chatTurnTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the storefront origin once it is fixed
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active voice clients. The heavy lifting happens
// per client: each connection owns its own listening session, draft workflow,
// and playback so two vendors never share state.
type Hub struct {
	// Registered clients keyed by user ID.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	recognizer repositories.Recognizer
	parser     repositories.SaleIntentParser
	assistant  repositories.Assistant
	tts        repositories.TextToSpeech
	history    repositories.ChatHistoryRepository
	sales      repositories.SaleRepository

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(
	recognizer repositories.Recognizer,
	parser repositories.SaleIntentParser,
	assistant repositories.Assistant,
	tts repositories.TextToSpeech,
	history repositories.ChatHistoryRepository,
	sales repositories.SaleRepository,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		recognizer: recognizer,
		parser:     parser,
		assistant:  assistant,
		tts:        tts,
		history:    history,
		sales:      sales,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.userID]; ok {
				// One live connection per user; the newer one wins.
				close(old.send)
			}
			h.clients[client.userID] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("userID", client.userID))

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("userID", client.userID))
		}
	}
}

type WriteData struct {
	// MessageType is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// audioFeed is the write side of a recognition stream.
type audioFeed interface {
	Write(data []byte) error
}

// feedRecognizer wraps the shared recognizer and remembers the feed of the
// most recently started stream so binary frames reach the right place.
type feedRecognizer struct {
	inner repositories.Recognizer

	mu   sync.Mutex
	feed audioFeed
}

func (r *feedRecognizer) Start(ctx context.Context, config repositories.RecognitionConfig) (repositories.RecognitionStream, error) {
	stream, err := r.inner.Start(ctx, config)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.feed, _ = stream.(audioFeed)
	r.mu.Unlock()
	return stream, nil
}

// Feed forwards one audio chunk to the active stream.
func (r *feedRecognizer) Feed(data []byte) error {
	r.mu.Lock()
	feed := r.feed
	r.mu.Unlock()
	if feed == nil {
		return nil
	}
	return feed.Write(data)
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	// Authenticated user for this client
	userID string

	// Logger
	logger *zap.Logger

	recognizer *feedRecognizer
	controller *usecase.SessionController
	capture    *usecase.SaleCaptureService
	assistant  *usecase.AssistantService
	speaker    *usecase.Speaker

	mutex      sync.Mutex
	language   entities.Language
	lastActive time.Time
}

// HandleVoiceSession upgrades the connection and wires a complete per-client
// capture pipeline for the pre-authenticated user.
func HandleVoiceSession(hub *Hub, c echo.Context, userID string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan WriteData, 256),
		userID:     userID,
		logger:     logger.With(zap.String("userID", userID)),
		recognizer: &feedRecognizer{inner: hub.recognizer},
		language:   entities.LanguageEnglish,
		lastActive: time.Now(),
	}

	controller, err := usecase.NewSessionController(
		client.recognizer,
		client.currentLanguage,
		client.logger,
		usecase.WithErrorHandler(func(message string) {
			client.pushJSON(CreateErrorMessage("speech_error", message))
		}),
		usecase.WithTranscriptHandler(func(committed, interim string) {
			client.pushJSON(CreateTranscriptMessage(committed, interim))
		}),
	)
	if err != nil {
		conn.Close()
		return err
	}
	client.controller = controller

	extractor := usecase.NewSaleIntentExtractor(hub.parser, client.logger)
	confirmation := usecase.NewConfirmation(hub.sales, client.logger)
	client.capture = usecase.NewSaleCaptureService(controller, extractor, confirmation, client.currentLanguage, client.logger)
	client.capture.SetDraftHandler(func(result usecase.ExtractionResult) {
		view := confirmation.View(client.currentLanguage())
		client.pushJSON(CreateDraftMessage(result.Outcome, view))
	})

	client.speaker = usecase.NewSpeaker(hub.tts, func(chunk []byte) {
		client.push(WriteData{Type: websocket.BinaryMessage, Payload: chunk})
	}, client.logger)
	client.speaker.SetDoneHandler(func() {
		base := stamped(MessageTypeSpeakingEnd)
		client.pushJSON(&base)
	})

	client.assistant = usecase.NewAssistantService(hub.assistant, hub.history, controller, client.speaker, client.logger)

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// currentLanguage reads the language selected by the most recent client
// message. Consulted at session start, so a switch applies to the next one.
func (c *Client) currentLanguage() entities.Language {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.language
}

func (c *Client) setLanguage(code string) {
	if code == "" {
		return
	}
	c.mutex.Lock()
	c.language = entities.Language(code)
	c.mutex.Unlock()
}

// IdleFor reports how long the client has been silent.
func (c *Client) IdleFor() time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return time.Since(c.lastActive)
}

func (c *Client) touch() {
	c.mutex.Lock()
	c.lastActive = time.Now()
	c.mutex.Unlock()
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.controller.StopListening()
		c.speaker.Stop()
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		c.touch()
		switch messageType {
		case websocket.TextMessage:
			c.processMessage(message)
		case websocket.BinaryMessage:
			c.processAudioChunk(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// push queues one frame for delivery, dropping it when the peer cannot keep
// up rather than blocking the pipeline.
func (c *Client) push(data WriteData) {
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping frame")
	}
}

func (c *Client) pushJSON(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	c.push(WriteData{Type: websocket.TextMessage, Payload: payload})
}

// processAudioChunk forwards one binary audio frame to the active
// recognition stream.
func (c *Client) processAudioChunk(data []byte) {
	if err := c.recognizer.Feed(data); err != nil {
		c.logger.Warn("Failed to stream audio data", zap.Error(err))
	}
}

// processMessage processes one incoming text frame.
func (c *Client) processMessage(message []byte) {
	parsed, err := ParseClientMessage(message)
	if err != nil {
		c.logger.Warn("Rejected client message", zap.Error(err))
		c.pushJSON(CreateErrorMessage("invalid_message", err.Error()))
		return
	}

	switch msg := parsed.(type) {
	case *CaptureStartMessage:
		c.handleCaptureStart(msg)
	case *CaptureStopMessage:
		c.controller.StopListening()
	case *ChatSendMessage:
		c.setLanguage(msg.Language)
		go c.handleChatSend(msg.Text)
	case *DraftSetMessage:
		c.handleDraftSet(msg)
	case *SpeakMessage:
		c.setLanguage(msg.Language)
		c.handleSpeak(msg.Text)
	case *BaseMessage:
		c.handleControl(msg.Type)
	}
}

func (c *Client) handleCaptureStart(msg *CaptureStartMessage) {
	c.setLanguage(msg.Language)

	var err error
	switch msg.Purpose {
	case CapturePurposeSale:
		err = c.capture.StartCapture(context.Background())
	case CapturePurposeChat:
		// Chat capture never auto-submits; the transcript is pushed back
		// for the user to review and send.
		err = c.controller.StartListening(context.Background(), func(utterance string) {
			c.pushJSON(CreateVoiceInputMessage(utterance))
		})
	}
	if err != nil {
		c.pushJSON(CreateErrorMessage("capture_failed", "Microphone error. Please retry."))
		return
	}

	base := stamped(MessageTypeCaptureStarted)
	c.pushJSON(&base)
}

func (c *Client) handleChatSend(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), chatTurnTimeout)
	defer cancel()

	reply, err := c.assistant.Send(ctx, c.userID, text, c.currentLanguage())
	if err != nil {
		c.pushJSON(CreateErrorMessage("chat_failed", err.Error()))
		return
	}
	c.pushJSON(CreateChatReplyMessage(reply))
}

func (c *Client) handleDraftSet(msg *DraftSetMessage) {
	confirmation := c.capture.Confirmation()

	var err error
	switch msg.Field {
	case DraftFieldItem:
		err = confirmation.SetItem(msg.Value)
	case DraftFieldUnit:
		err = confirmation.SetUnit(msg.Value)
	case DraftFieldQuantity, DraftFieldPrice:
		var value float64
		value, err = strconv.ParseFloat(msg.Value, 64)
		if err == nil {
			if msg.Field == DraftFieldQuantity {
				err = confirmation.SetQuantity(value)
			} else {
				err = confirmation.SetPrice(value)
			}
		}
	}
	if err != nil {
		c.pushJSON(CreateErrorMessage("edit_rejected", err.Error()))
		return
	}
	c.pushDraftView()
}

func (c *Client) handleControl(t MessageType) {
	confirmation := c.capture.Confirmation()

	switch t {
	case MessageTypeDraftEdit:
		if err := confirmation.Edit(); err != nil {
			c.pushJSON(CreateErrorMessage("edit_rejected", err.Error()))
			return
		}
		c.pushDraftView()

	case MessageTypeDraftReview:
		if err := confirmation.Review(); err != nil {
			c.pushJSON(CreateErrorMessage("edit_rejected", err.Error()))
			return
		}
		c.pushDraftView()

	case MessageTypeDraftConfirm:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		record, err := confirmation.Confirm(ctx, c.userID)
		if err != nil {
			c.pushJSON(CreateErrorMessage("commit_rejected", err.Error()))
			return
		}
		c.pushJSON(CreateSaleRecordedMessage(*record))

	case MessageTypeDraftDiscard:
		confirmation.Discard()
		c.pushDraftView()

	case MessageTypeSpeakStop:
		c.speaker.Stop()

	case MessageTypePing:
		base := stamped(MessageTypePong)
		c.pushJSON(&base)
	}
}

func (c *Client) handleSpeak(text string) {
	base := stamped(MessageTypeSpeakingStart)
	c.pushJSON(&base)
	if err := c.assistant.SpeakReply(context.Background(), text, c.currentLanguage()); err != nil {
		c.pushJSON(CreateErrorMessage("speak_failed", "Could not play the reply."))
	}
}

func (c *Client) pushDraftView() {
	view := c.capture.Confirmation().View(c.currentLanguage())
	c.pushJSON(CreateDraftMessage("", view))
}
