package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"

	appconfig "github.com/wolfman30/medbook-assistant/internal/config"
	"github.com/wolfman30/medbook-assistant/internal/conversation"
	"github.com/wolfman30/medbook-assistant/internal/dialogue"
	"github.com/wolfman30/medbook-assistant/internal/notify"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

func memoryConfig() *appconfig.Config {
	return &appconfig.Config{
		ClinicTimezone:      "Asia/Kolkata",
		BookingBackend:      "memory",
		SessionBackend:      "memory",
		EmailProvider:       "stub",
		ConflictWindow:      20 * time.Minute,
		MaxCandidateDoctors: 5,
	}
}

func TestBuildAppInMemory(t *testing.T) {
	ctx := context.Background()
	app, err := BuildApp(ctx, memoryConfig(), aws.Config{}, prometheus.NewRegistry(), logging.Discard())
	if err != nil {
		t.Fatalf("BuildApp: %v", err)
	}
	defer app.Close()

	sess, reply, err := app.Conversation.Start(ctx, "boot-1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if sess.Step != dialogue.StepMenu || len(reply.Messages) == 0 {
		t.Fatalf("unexpected greeting: %+v", reply)
	}
	reply, err = app.Conversation.ProcessMessage(ctx, "boot-1", "1")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply.Step != dialogue.StepName {
		t.Fatalf("step = %q, want name", reply.Step)
	}
	if _, err := app.Conversation.ProcessAudio(ctx, "boot-1", []byte("x")); err != conversation.ErrNoTranscriber {
		t.Fatalf("expected voice disabled, got %v", err)
	}
}

func TestBuildBookingStoreRejectsUnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.BookingBackend = "mongo"
	if _, _, err := BuildBookingStore(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildBookingStoreSupabaseNeedsCredentials(t *testing.T) {
	cfg := memoryConfig()
	cfg.BookingBackend = "supabase"
	if _, _, err := BuildBookingStore(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatal("expected error without url and key")
	}
}

func TestBuildSessionStore(t *testing.T) {
	cfg := memoryConfig()
	store, err := BuildSessionStore(cfg, aws.Config{}, nil, logging.Discard())
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := store.(*conversation.MemoryStore); !ok {
		t.Fatalf("got %T", store)
	}

	cfg.SessionBackend = "redis"
	if _, err := BuildSessionStore(cfg, aws.Config{}, nil, logging.Discard()); err == nil {
		t.Fatal("redis backend without a client should fail")
	}

	cfg.SessionBackend = "dynamodb"
	cfg.SessionsTable = "sessions"
	store, err = BuildSessionStore(cfg, aws.Config{Region: "us-east-1"}, nil, logging.Discard())
	if err != nil {
		t.Fatalf("dynamodb: %v", err)
	}
	if _, ok := store.(*conversation.DynamoStore); !ok {
		t.Fatalf("got %T", store)
	}
}

func TestBuildEmailSenderFallsBackToStub(t *testing.T) {
	cfg := memoryConfig()
	cfg.EmailProvider = "sendgrid"
	if _, ok := BuildEmailSender(cfg, aws.Config{}, logging.Discard()).(*notify.StubEmailSender); !ok {
		t.Fatal("expected stub without api key")
	}
	cfg.SendGridAPIKey = "SG.test"
	if _, ok := BuildEmailSender(cfg, aws.Config{}, logging.Discard()).(*notify.SendGridSender); !ok {
		t.Fatal("expected sendgrid sender")
	}
}

func TestBuildRosterFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.csv")
	if err := os.WriteFile(path, []byte("Doctor's Name,speciality\nDr. Test Heart,Cardiologist\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := memoryConfig()
	cfg.RosterPath = path

	r, err := BuildRoster(context.Background(), cfg, aws.Config{}, logging.Discard())
	if err != nil {
		t.Fatalf("BuildRoster: %v", err)
	}
	if got := r.DoctorsFor("Cardiologist", 5); len(got) != 1 || got[0] != "Dr. Test Heart" {
		t.Fatalf("doctors = %v", got)
	}
}

func TestBuildLLMClientNoneConfigured(t *testing.T) {
	client, closeFn := BuildLLMClient(context.Background(), memoryConfig(), aws.Config{}, nil, logging.Discard())
	defer closeFn()
	if client != nil {
		t.Fatalf("expected nil client, got %T", client)
	}
}
