// Package voice turns recorded audio into text for the dialogue.
package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	gax "github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/wolfman30/medbook-assistant/pkg/logging"
)

const (
	// SampleRateHertz is the expected rate of the mono LINEAR16 input.
	SampleRateHertz = 16000
	// MaxAudioBytes caps a single clip (about a minute of 16 kHz mono audio).
	MaxAudioBytes = 5 * 1024 * 1024

	defaultLanguage = "en-IN"
)

var ErrAudioTooLarge = errors.New("voice: audio clip too large")

// Transcriber converts one audio clip to text. An empty string means nothing
// intelligible was heard.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
}

// GoogleTranscriber uses Cloud Speech-to-Text synchronous recognition.
type GoogleTranscriber struct {
	client   recognizer
	closer   func() error
	language string
	logger   *logging.Logger
}

// NewGoogleTranscriber uses the credentials file when given, otherwise
// application default credentials.
func NewGoogleTranscriber(ctx context.Context, credentialsFile, language string, logger *logging.Logger) (*GoogleTranscriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("voice: create speech client: %w", err)
	}
	t := newGoogleTranscriber(client, language, logger)
	t.closer = client.Close
	return t, nil
}

func newGoogleTranscriber(client recognizer, language string, logger *logging.Logger) *GoogleTranscriber {
	if language == "" {
		language = defaultLanguage
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GoogleTranscriber{client: client, language: language, logger: logger}
}

func (g *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}
	if len(audio) > MaxAudioBytes {
		return "", ErrAudioTooLarge
	}
	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   SampleRateHertz,
			LanguageCode:      g.language,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}
	resp, err := g.client.Recognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("voice: recognize: %w", err)
	}

	parts := make([]string, 0, len(resp.GetResults()))
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if text := strings.TrimSpace(alts[0].GetTranscript()); text != "" {
			parts = append(parts, text)
		}
	}
	transcript := strings.Join(parts, " ")
	g.logger.Debug("audio transcribed", "bytes", len(audio), "chars", len(transcript))
	return transcript, nil
}

func (g *GoogleTranscriber) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer()
}
