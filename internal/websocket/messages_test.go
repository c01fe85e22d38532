package websocket

import (
	"encoding/json"
	"testing"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/usecase"
)

func TestParseCaptureStart(t *testing.T) {
	raw := `{"type":"capture_start","purpose":"sale","language":"hi"}`
	parsed, err := ParseClientMessage([]byte(raw))
	if err != nil {
		t.Fatalf("ParseClientMessage failed: %v", err)
	}
	msg, ok := parsed.(*CaptureStartMessage)
	if !ok {
		t.Fatalf("Expected CaptureStartMessage, got %T", parsed)
	}
	if msg.Purpose != CapturePurposeSale || msg.Language != "hi" {
		t.Errorf("Unexpected message: %+v", msg)
	}
}

func TestParseCaptureStartRejectsUnknownPurpose(t *testing.T) {
	raw := `{"type":"capture_start","purpose":"dictation"}`
	if _, err := ParseClientMessage([]byte(raw)); err == nil {
		t.Error("Expected unknown purpose to be rejected")
	}
}

func TestParseChatSendRequiresText(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{"type":"chat_send","text":""}`)); err == nil {
		t.Error("Expected empty text to be rejected")
	}

	parsed, err := ParseClientMessage([]byte(`{"type":"chat_send","text":"tomato rate?","language":"en"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage failed: %v", err)
	}
	if msg := parsed.(*ChatSendMessage); msg.Text != "tomato rate?" {
		t.Errorf("Unexpected message: %+v", msg)
	}
}

func TestParseDraftSetValidatesField(t *testing.T) {
	parsed, err := ParseClientMessage([]byte(`{"type":"draft_set","field":"price","value":"150"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage failed: %v", err)
	}
	if msg := parsed.(*DraftSetMessage); msg.Field != DraftFieldPrice || msg.Value != "150" {
		t.Errorf("Unexpected message: %+v", msg)
	}

	if _, err := ParseClientMessage([]byte(`{"type":"draft_set","field":"discount","value":"10"}`)); err == nil {
		t.Error("Expected unknown field to be rejected")
	}
}

func TestParseControlMessages(t *testing.T) {
	for _, raw := range []string{
		`{"type":"capture_stop"}`,
		`{"type":"draft_edit"}`,
		`{"type":"draft_review"}`,
		`{"type":"draft_confirm"}`,
		`{"type":"draft_discard"}`,
		`{"type":"speak_stop"}`,
		`{"type":"ping"}`,
	} {
		if _, err := ParseClientMessage([]byte(raw)); err != nil {
			t.Errorf("ParseClientMessage(%s) failed: %v", raw, err)
		}
	}
}

func TestParseRejectsUnknownAndMalformed(t *testing.T) {
	if _, err := ParseClientMessage([]byte(`{"type":"format_disk"}`)); err == nil {
		t.Error("Expected unknown type to be rejected")
	}
	if _, err := ParseClientMessage([]byte(`{not json`)); err == nil {
		t.Error("Expected malformed JSON to be rejected")
	}
}

func TestCreateDraftMessageEncodesView(t *testing.T) {
	view := usecase.DraftView{
		Draft: entities.SaleDraft{Item: "Tomato", Quantity: 5, Unit: entities.UnitKilogram, Price: 150},
		State: usecase.ConfirmationReviewing,
	}
	msg := CreateDraftMessage(usecase.ExtractionSuccess, view)

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["type"] != string(MessageTypeDraft) {
		t.Errorf("Unexpected type: %v", decoded["type"])
	}
	if decoded["outcome"] != string(usecase.ExtractionSuccess) {
		t.Errorf("Unexpected outcome: %v", decoded["outcome"])
	}
	if decoded["view"] == nil {
		t.Error("Expected view payload")
	}
}

func TestCreateErrorMessage(t *testing.T) {
	msg := CreateErrorMessage("speech_error", "Microphone blocked. Check permissions.")
	if msg.Type != MessageTypeError {
		t.Errorf("Unexpected type: %s", msg.Type)
	}
	if msg.Code != "speech_error" || msg.Message == "" {
		t.Errorf("Unexpected message: %+v", msg)
	}
	if msg.Timestamp == "" {
		t.Error("Expected timestamp to be set")
	}
}
