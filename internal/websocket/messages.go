package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/usecase"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Client-to-server message types
const (
	MessageTypeCaptureStart MessageType = "capture_start"
	MessageTypeCaptureStop  MessageType = "capture_stop"
	MessageTypeChatSend     MessageType = "chat_send"
	MessageTypeDraftEdit    MessageType = "draft_edit"
	MessageTypeDraftReview  MessageType = "draft_review"
	MessageTypeDraftSet     MessageType = "draft_set"
	MessageTypeDraftConfirm MessageType = "draft_confirm"
	MessageTypeDraftDiscard MessageType = "draft_discard"
	MessageTypeSpeak        MessageType = "speak"
	MessageTypeSpeakStop    MessageType = "speak_stop"
	MessageTypePing         MessageType = "ping"
)

// Server-to-client message types
const (
	MessageTypeCaptureStarted MessageType = "capture_started"
	MessageTypeTranscript     MessageType = "transcript"
	MessageTypeDraft          MessageType = "draft"
	MessageTypeVoiceInput     MessageType = "voice_input"
	MessageTypeChatReply      MessageType = "chat_reply"
	MessageTypeSaleRecorded   MessageType = "sale_recorded"
	MessageTypeSpeakingStart  MessageType = "speaking_start"
	MessageTypeSpeakingEnd    MessageType = "speaking_end"
	MessageTypePong           MessageType = "pong"
	MessageTypeError          MessageType = "error"
)

// Capture purposes
const (
	CapturePurposeSale = "sale"
	CapturePurposeChat = "chat"
)

// Editable draft fields
const (
	DraftFieldItem     = "item"
	DraftFieldQuantity = "quantity"
	DraftFieldUnit     = "unit"
	DraftFieldPrice    = "price"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// CaptureStartMessage asks the server to open a listening session. For the
// sale purpose the committed utterance feeds extraction; for the chat purpose
// it is pushed back as a voice_input so the user submits it explicitly.
type CaptureStartMessage struct {
	BaseMessage
	Purpose  string `json:"purpose"`
	Language string `json:"language,omitempty"`
}

// CaptureStopMessage ends the current listening session manually.
type CaptureStopMessage struct {
	BaseMessage
}

// ChatSendMessage submits one typed chat turn.
type ChatSendMessage struct {
	BaseMessage
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// DraftSetMessage updates a single field of the pending draft. Value is
// always a string; numeric fields are parsed server-side.
type DraftSetMessage struct {
	BaseMessage
	Field string `json:"field"`
	Value string `json:"value"`
}

// SpeakMessage asks the server to synthesize and stream audio for text.
type SpeakMessage struct {
	BaseMessage
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// TranscriptMessage pushes the live transcript during a listening session.
type TranscriptMessage struct {
	BaseMessage
	Committed string `json:"committed"`
	Interim   string `json:"interim,omitempty"`
}

// DraftMessage pushes the extraction outcome and the resulting draft view.
type DraftMessage struct {
	BaseMessage
	Outcome usecase.ExtractionOutcome `json:"outcome,omitempty"`
	View    usecase.DraftView         `json:"view"`
}

// VoiceInputMessage pushes a chat-purpose capture result. It fills the input
// box client-side; nothing is submitted until the user sends it.
type VoiceInputMessage struct {
	BaseMessage
	Text string `json:"text"`
}

// ChatReplyMessage pushes the assistant's reply to a chat turn.
type ChatReplyMessage struct {
	BaseMessage
	Message entities.ChatMessage `json:"message"`
}

// SaleRecordedMessage confirms a committed sale.
type SaleRecordedMessage struct {
	BaseMessage
	Sale entities.SaleRecord `json:"sale"`
}

// ErrorMessage carries a short machine code and a human-readable message.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// ParseClientMessage decodes and validates one client text frame.
func ParseClientMessage(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeCaptureStart:
		var msg CaptureStartMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid capture_start message: %w", err)
		}
		if msg.Purpose != CapturePurposeSale && msg.Purpose != CapturePurposeChat {
			return nil, fmt.Errorf("purpose must be one of: %s, %s", CapturePurposeSale, CapturePurposeChat)
		}
		return &msg, nil

	case MessageTypeCaptureStop:
		return &CaptureStopMessage{BaseMessage: base}, nil

	case MessageTypeChatSend:
		var msg ChatSendMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid chat_send message: %w", err)
		}
		if msg.Text == "" {
			return nil, fmt.Errorf("text is required")
		}
		return &msg, nil

	case MessageTypeDraftSet:
		var msg DraftSetMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid draft_set message: %w", err)
		}
		switch msg.Field {
		case DraftFieldItem, DraftFieldQuantity, DraftFieldUnit, DraftFieldPrice:
		default:
			return nil, fmt.Errorf("unknown draft field: %s", msg.Field)
		}
		return &msg, nil

	case MessageTypeDraftEdit, MessageTypeDraftReview, MessageTypeDraftConfirm, MessageTypeDraftDiscard:
		return &base, nil

	case MessageTypeSpeak:
		var msg SpeakMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid speak message: %w", err)
		}
		if msg.Text == "" {
			return nil, fmt.Errorf("text is required")
		}
		return &msg, nil

	case MessageTypeSpeakStop, MessageTypePing:
		return &base, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

func stamped(t MessageType) BaseMessage {
	return BaseMessage{Type: t, Timestamp: time.Now().Format(time.RFC3339)}
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: stamped(MessageTypeError),
		Code:        code,
		Message:     message,
	}
}

// CreateTranscriptMessage creates a live transcript push
func CreateTranscriptMessage(committed, interim string) *TranscriptMessage {
	return &TranscriptMessage{
		BaseMessage: stamped(MessageTypeTranscript),
		Committed:   committed,
		Interim:     interim,
	}
}

// CreateDraftMessage creates a draft push from an extraction result view
func CreateDraftMessage(outcome usecase.ExtractionOutcome, view usecase.DraftView) *DraftMessage {
	return &DraftMessage{
		BaseMessage: stamped(MessageTypeDraft),
		Outcome:     outcome,
		View:        view,
	}
}

// CreateVoiceInputMessage creates a chat voice-input push
func CreateVoiceInputMessage(text string) *VoiceInputMessage {
	return &VoiceInputMessage{
		BaseMessage: stamped(MessageTypeVoiceInput),
		Text:        text,
	}
}

// CreateChatReplyMessage creates a chat reply push
func CreateChatReplyMessage(message entities.ChatMessage) *ChatReplyMessage {
	return &ChatReplyMessage{
		BaseMessage: stamped(MessageTypeChatReply),
		Message:     message,
	}
}

// CreateSaleRecordedMessage creates a committed sale push
func CreateSaleRecordedMessage(sale entities.SaleRecord) *SaleRecordedMessage {
	return &SaleRecordedMessage{
		BaseMessage: stamped(MessageTypeSaleRecorded),
		Sale:        sale,
	}
}
