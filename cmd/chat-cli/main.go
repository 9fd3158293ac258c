// Command chat-cli runs the booking assistant in a terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wolfman30/medbook-assistant/cmd/mainconfig"
	"github.com/wolfman30/medbook-assistant/internal/app/bootstrap"
	appconfig "github.com/wolfman30/medbook-assistant/internal/config"
	"github.com/wolfman30/medbook-assistant/internal/dialogue"
	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

// Chat is the part of the conversation service the REPL drives.
type Chat interface {
	Start(ctx context.Context, id string) (*dialogue.Session, dialogue.Reply, error)
	ProcessMessage(ctx context.Context, id, text string) (dialogue.Reply, error)
	Reset(ctx context.Context, id string) (dialogue.Reply, error)
}

func main() {
	sessionID := flag.String("session", "", "session id (random when empty)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := appconfig.Load()
	// Sessions live only as long as the process.
	cfg.SessionBackend = "memory"

	// Stdout belongs to the conversation.
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load aws config: %v\n", err)
		os.Exit(1)
	}
	app, err := bootstrap.BuildApp(ctx, cfg, awsCfg, nil, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build app: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := run(ctx, app.Conversation, *sessionID, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}
}

// run reads one turn per line until EOF, "/quit" or an exit outcome.
// "/reset" starts the conversation over.
func run(ctx context.Context, chat Chat, id string, in io.Reader, out io.Writer) error {
	sess, reply, err := chat.Start(ctx, id)
	if err != nil {
		return err
	}
	id = sess.ID
	printReply(out, reply)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			reply, err = chat.Reset(ctx, id)
		default:
			reply, err = chat.ProcessMessage(ctx, id, line)
		}
		if err != nil {
			return err
		}
		printReply(out, reply)
		if reply.Outcome == dialogue.OutcomeExited {
			return nil
		}
	}
}

func printReply(out io.Writer, reply dialogue.Reply) {
	for _, msg := range reply.Messages {
		fmt.Fprintf(out, "assistant: %s\n", msg)
	}
}
