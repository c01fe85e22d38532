package entities

import "testing"

func TestSpeechSessionBegin(t *testing.T) {
	session := NewSpeechSession("en-IN")

	if session.Status() != SpeechIdle {
		t.Errorf("Expected idle status, got %s", session.Status())
	}
	if !session.Begin() {
		t.Fatal("Expected Begin to succeed from idle")
	}
	if session.Status() != SpeechListening {
		t.Errorf("Expected listening status, got %s", session.Status())
	}
	if session.Begin() {
		t.Error("Expected Begin to fail once listening")
	}
}

func TestApplyResultAppendsFinals(t *testing.T) {
	session := NewSpeechSession("hi-IN")
	session.Begin()

	if !session.ApplyResult([]string{"tamatar paanch kilo"}, "ek") {
		t.Fatal("Expected result to be applied")
	}
	if session.CommittedText() != "tamatar paanch kilo" {
		t.Errorf("Unexpected committed text: %q", session.CommittedText())
	}
	if session.InterimText() != "ek" {
		t.Errorf("Unexpected interim text: %q", session.InterimText())
	}

	// Finals accumulate; the interim segment is replaced wholesale.
	session.ApplyResult([]string{"ek sau pachaas rupaye"}, "")
	if session.CommittedText() != "tamatar paanch kilo ek sau pachaas rupaye" {
		t.Errorf("Unexpected committed text: %q", session.CommittedText())
	}
	if session.InterimText() != "" {
		t.Errorf("Expected interim to be cleared, got %q", session.InterimText())
	}
}

func TestApplyResultSkipsBlankSegments(t *testing.T) {
	session := NewSpeechSession("en-IN")
	session.Begin()

	session.ApplyResult([]string{"", "  ", "onion"}, "")
	if session.CommittedText() != "onion" {
		t.Errorf("Expected blank segments to be skipped, got %q", session.CommittedText())
	}
}

func TestApplyResultIgnoredAfterStop(t *testing.T) {
	session := NewSpeechSession("en-IN")
	session.Begin()
	session.ApplyResult([]string{"five kg"}, "")
	session.End()

	if session.ApplyResult([]string{"late segment"}, "late") {
		t.Error("Expected result to be rejected after End")
	}
	if session.CommittedText() != "five kg" {
		t.Errorf("Committed text changed after End: %q", session.CommittedText())
	}
}

func TestDisplayText(t *testing.T) {
	session := NewSpeechSession("en-IN")
	session.Begin()
	session.ApplyResult([]string{"tomato"}, "five")

	if session.DisplayText() != "tomato five" {
		t.Errorf("Unexpected display text: %q", session.DisplayText())
	}
}

func TestErrorKeepsErroredStatus(t *testing.T) {
	session := NewSpeechSession("en-IN")
	session.Begin()
	session.ApplyError("Microphone blocked. Check permissions.")

	if session.Status() != SpeechErrored {
		t.Errorf("Expected errored status, got %s", session.Status())
	}

	// The terminating end event must not mask the error.
	session.End()
	if session.Status() != SpeechErrored {
		t.Errorf("Expected errored status after End, got %s", session.Status())
	}
	if session.ErrorMessage() == "" {
		t.Error("Expected error message to be retained")
	}
}
