package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"lebs-backend/internal/logger"
)

// The relay is a separate deployment holding the provider API key, so
// the main backend never carries outbound mail credentials.

type sendRequest struct {
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentName string `json:"attachment_name,omitempty"`
	AttachmentB64  string `json:"attachment_b64,omitempty"`
}

type relayServer struct {
	client   *sendgrid.Client
	from     *mail.Email
	apiToken string
}

func main() {
	_ = godotenv.Load()

	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		log.Fatal("SENDGRID_API_KEY is required")
	}
	fromAddr := os.Getenv("RELAY_FROM")
	if fromAddr == "" {
		log.Fatal("RELAY_FROM is required")
	}
	addr := os.Getenv("RELAY_ADDR")
	if addr == "" {
		addr = ":8090"
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	srv := &relayServer{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail("Laboratory Equipment Borrowing System", fromAddr),
		apiToken: os.Getenv("RELAY_TOKEN"),
	}

	r := mux.NewRouter()
	r.HandleFunc("/send", srv.handleSend).Methods("POST")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	logger.Info("Email relay listening", "address", addr)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	if err := httpSrv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}

func (s *relayServer) handleSend(w http.ResponseWriter, r *http.Request) {
	// Shared-secret check, skipped when no token is configured
	if s.apiToken != "" && r.Header.Get("X-Relay-Token") != s.apiToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.To == "" || req.Subject == "" {
		http.Error(w, "to and subject are required", http.StatusBadRequest)
		return
	}

	message := mail.NewSingleEmail(s.from, req.Subject, mail.NewEmail("", req.To), req.Body, "")
	if req.AttachmentB64 != "" {
		attachment := mail.NewAttachment()
		attachment.SetContent(req.AttachmentB64)
		attachment.SetFilename(req.AttachmentName)
		attachment.SetType("application/pdf")
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	resp, err := s.client.Send(message)
	if err != nil {
		logger.Error("Provider send failed", "to", req.To, "error", err)
		http.Error(w, "send failed", http.StatusBadGateway)
		return
	}
	if resp.StatusCode >= 400 {
		logger.Error("Provider rejected message", "to", req.To, "status", resp.StatusCode, "body", resp.Body)
		http.Error(w, "send failed", http.StatusBadGateway)
		return
	}

	logger.Info("Message relayed", "to", req.To, "subject", req.Subject)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
}
