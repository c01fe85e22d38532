// Command voiceclient is a manual test client for the voice endpoint: it
// logs in, opens the WebSocket, streams an audio file as a sale capture, and
// prints everything the server pushes back.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

type LoginRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
}

func main() {
	server := flag.String("server", "localhost:8080", "server host:port")
	userID := flag.String("user", "vendor1", "user id to log in as")
	language := flag.String("language", "en", "capture language code")
	audioPath := flag.String("audio", "sample_audio.wav", "LINEAR16 audio file to stream")
	flag.Parse()

	token, err := login(*server, *userID)
	if err != nil {
		log.Fatal("Failed to log in:", err)
	}
	log.Printf("Logged in as %s", *userID)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *server, Path: "/ws/voice", RawQuery: "token=" + token}
	log.Printf("connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go handleIncomingMessage(c, done)

	streamCapture(c, *language, *audioPath)

	select {
	case <-done:
		return
	case <-interrupt:
		log.Println("interrupt")
		// Cleanly close the connection by sending a close message and then
		// waiting (with timeout) for the server to close the connection.
		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return
	}
}

func login(server, userID string) (string, error) {
	jsonData, err := json.Marshal(LoginRequest{UserID: userID, Name: userID})
	if err != nil {
		return "", err
	}

	resp, err := http.Post("http://"+server+"/api/v1/users/login", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed: %s", string(body))
	}

	var loginResp LoginResponse
	if err := json.Unmarshal(body, &loginResp); err != nil {
		return "", err
	}
	return loginResp.Token, nil
}

func streamCapture(c *websocket.Conn, language, audioPath string) {
	log.Printf("🚀 Starting sale capture (language: %s)", language)
	startMessage := map[string]interface{}{
		"type":     "capture_start",
		"purpose":  "sale",
		"language": language,
	}
	if err := sendJSONMessage(c, startMessage); err != nil {
		log.Printf("Error sending capture start: %v", err)
		return
	}
	time.Sleep(500 * time.Millisecond)

	audioFileData, err := os.ReadFile(audioPath)
	if err != nil {
		log.Printf("Error reading audio file: %v", err)
		return
	}
	log.Printf("📁 Read audio file: %s (%d bytes)", audioPath, len(audioFileData))

	chunkSize := 1024 // 1KB chunks
	totalChunks := (len(audioFileData) + chunkSize - 1) / chunkSize

	log.Printf("📤 Sending %d audio chunks (chunk size: %d bytes)", totalChunks, chunkSize)
	audioStartTime := time.Now()

	for i := 0; i < totalChunks; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(audioFileData) {
			end = len(audioFileData)
		}

		if err := c.WriteMessage(websocket.BinaryMessage, audioFileData[start:end]); err != nil {
			log.Printf("Error sending audio chunk %d: %v", i, err)
			return
		}
		time.Sleep(100 * time.Millisecond) // Small delay between chunks
	}

	log.Printf("📤 Finished sending audio chunks in %v", time.Since(audioStartTime))
	log.Printf("✅ Waiting for silence endpointing and the extracted draft...")
}

func sendJSONMessage(c *websocket.Conn, message map[string]interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return c.WriteMessage(websocket.TextMessage, data)
}

func handleIncomingMessage(c *websocket.Conn, done chan struct{}) {
	defer close(done)
	var audioChunkCount int

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Println("read:", err)
			return
		}

		if messageType == websocket.BinaryMessage {
			audioChunkCount++
			log.Printf("🎵 Received audio chunk #%d (%d bytes)", audioChunkCount, len(message))
			continue
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Println("unmarshal error:", err)
			continue
		}

		msgType, _ := msg["type"].(string)
		switch msgType {
		case "capture_started":
			log.Printf("✅ Capture started")
		case "transcript":
			log.Printf("📝 Transcript: %v | interim: %v", msg["committed"], msg["interim"])
		case "draft":
			pretty, _ := json.MarshalIndent(msg["view"], "", "  ")
			log.Printf("🧾 Draft (%v):\n%s", msg["outcome"], pretty)
		case "sale_recorded":
			log.Printf("💰 Sale recorded: %v", msg["sale"])
		case "error":
			log.Printf("❌ Error %v: %v", msg["error_code"], msg["message"])
		default:
			log.Printf("Received message: %s", string(message))
		}
	}
}
