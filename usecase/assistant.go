package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// DefaultChatContext hints the assistant about what the user is likely
// asking for.
const DefaultChatContext = "User is asking about market prices or inventory."

// assistantFallback is shown when the understanding service is unreachable.
const assistantFallback = "Network issue. Please check internet."

// AssistantService runs the free-form chat loop: typed or voice-captured
// text goes to the chat-mode understanding service, both turns land in the
// history, and the full ordered history is persisted after every mutation.
// Voice capture here does not auto-submit: the transcript fills a pending
// input that the caller sends explicitly.
type AssistantService struct {
	assistant  repositories.Assistant
	history    repositories.ChatHistoryRepository
	controller *SessionController
	speaker    *Speaker
	logger     *zap.Logger

	mu           sync.Mutex
	conversation map[string][]entities.ChatMessage
	pendingInput string
}

// NewAssistantService creates the chat loop. controller and speaker are
// optional; without them voice input and playback are simply unavailable.
func NewAssistantService(
	assistant repositories.Assistant,
	history repositories.ChatHistoryRepository,
	controller *SessionController,
	speaker *Speaker,
	logger *zap.Logger,
) *AssistantService {
	return &AssistantService{
		assistant:    assistant,
		history:      history,
		controller:   controller,
		speaker:      speaker,
		logger:       logger,
		conversation: make(map[string][]entities.ChatMessage),
	}
}

// Open loads the persisted history once per user and returns it.
func (a *AssistantService) Open(ctx context.Context, userID string) ([]entities.ChatMessage, error) {
	a.mu.Lock()
	if messages, ok := a.conversation[userID]; ok {
		a.mu.Unlock()
		return append([]entities.ChatMessage(nil), messages...), nil
	}
	a.mu.Unlock()

	messages, err := a.history.GetHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.conversation[userID] = messages
	a.mu.Unlock()
	return append([]entities.ChatMessage(nil), messages...), nil
}

// Send appends the user turn, asks the understanding service for a short
// answer in the user's language, appends the model turn, and persists the
// whole history after each mutation. Service failures degrade to a fallback
// model message; consecutive same-role messages are tolerated.
func (a *AssistantService) Send(ctx context.Context, userID, text string, language entities.Language) (entities.ChatMessage, error) {
	userMsg := entities.NewChatMessage(entities.ChatRoleUser, text)
	if err := userMsg.Validate(); err != nil {
		return entities.ChatMessage{}, err
	}
	a.appendAndPersist(ctx, userID, userMsg)

	answer, err := a.assistant.Answer(ctx, text, DefaultChatContext, language)
	if err != nil {
		a.logger.Warn("assistant answer failed", zap.Error(err))
		answer = assistantFallback
	}

	modelMsg := entities.NewChatMessage(entities.ChatRoleModel, answer)
	a.appendAndPersist(ctx, userID, modelMsg)
	return modelMsg, nil
}

// Messages returns the in-memory conversation for a user in insertion order.
func (a *AssistantService) Messages(userID string) []entities.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entities.ChatMessage(nil), a.conversation[userID]...)
}

// CaptureVoiceInput starts a listening session whose transcript fills the
// pending input instead of auto-submitting.
func (a *AssistantService) CaptureVoiceInput(ctx context.Context) error {
	if a.controller == nil {
		return ErrRecognizerUnavailable
	}
	return a.controller.StartListening(ctx, func(utterance string) {
		a.mu.Lock()
		a.pendingInput = utterance
		a.mu.Unlock()
	})
}

// StopVoiceInput ends voice capture manually.
func (a *AssistantService) StopVoiceInput() {
	if a.controller != nil {
		a.controller.StopListening()
	}
}

// TakeVoiceInput pops the captured transcript, empty when none is pending.
func (a *AssistantService) TakeVoiceInput() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	text := a.pendingInput
	a.pendingInput = ""
	return text
}

// SpeakReply plays a model reply aloud in the user's locale.
func (a *AssistantService) SpeakReply(ctx context.Context, text string, language entities.Language) error {
	if a.speaker == nil {
		return nil
	}
	return a.speaker.Speak(ctx, text, entities.LocaleFor(language))
}

// StopSpeaking cancels any in-flight playback.
func (a *AssistantService) StopSpeaking() {
	if a.speaker != nil {
		a.speaker.Stop()
	}
}

func (a *AssistantService) appendAndPersist(ctx context.Context, userID string, msg entities.ChatMessage) {
	a.mu.Lock()
	a.conversation[userID] = append(a.conversation[userID], msg)
	snapshot := append([]entities.ChatMessage(nil), a.conversation[userID]...)
	a.mu.Unlock()

	// Overwrite-on-write; the tiered store absorbs failures.
	_ = a.history.PutHistory(ctx, userID, snapshot)
}
