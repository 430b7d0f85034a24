// main package for the tts-client, a one-shot caller for the TTS gateway.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/book-expert/tts-gateway/pkg/client"
)

// Flag names.
const (
	flagURL      = "url"
	flagText     = "text"
	flagSpeaker  = "speaker"
	flagLanguage = "language"
	flagOutput   = "output"
	flagSpeakers = "speakers"
	flagHealth   = "health"
	flagTimeout  = "timeout"
)

// Flag descriptions.
const (
	flagURLDesc      = "Base URL of the TTS gateway"
	flagTextDesc     = "Text to convert to speech"
	flagSpeakerDesc  = "Speaker identifier (e.g. p225)"
	flagLanguageDesc = "Language identifier"
	flagOutputDesc   = "Output file path (.wav)"
	flagSpeakersDesc = "List available speakers and exit"
	flagHealthDesc   = "Check gateway health and exit"
	flagTimeoutDesc  = "Request timeout in seconds"
)

// Defaults.
const (
	defaultURL            = "http://localhost:5002"
	defaultOutputFile     = "output.wav"
	defaultTimeoutSeconds = 120
	wavFilePermissions    = 0o600
)

// ErrTextRequired indicates that no action flag was provided.
var ErrTextRequired = errors.New("--text is required unless --speakers or --health is given")

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	url      string
	text     string
	speaker  string
	language string
	output   string
	speakers bool
	health   bool
	timeout  int
}

func main() {
	err := run()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	flags := parseFlags()

	timeout := time.Duration(flags.timeout) * time.Second
	gatewayClient := client.New(flags.url, timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	switch {
	case flags.health:
		return handleHealthCheck(ctx, gatewayClient)
	case flags.speakers:
		return handleListSpeakers(ctx, gatewayClient)
	case flags.text != "":
		return handleSynthesis(ctx, gatewayClient, flags)
	default:
		flag.Usage()

		return ErrTextRequired
	}
}

// parseFlags defines and parses command-line flags, returning them in a struct.
func parseFlags() appFlags {
	var flags appFlags

	flag.StringVar(&flags.url, flagURL, defaultURL, flagURLDesc)
	flag.StringVar(&flags.text, flagText, "", flagTextDesc)
	flag.StringVar(&flags.speaker, flagSpeaker, "", flagSpeakerDesc)
	flag.StringVar(&flags.language, flagLanguage, "", flagLanguageDesc)
	flag.StringVar(&flags.output, flagOutput, defaultOutputFile, flagOutputDesc)
	flag.BoolVar(&flags.speakers, flagSpeakers, false, flagSpeakersDesc)
	flag.BoolVar(&flags.health, flagHealth, false, flagHealthDesc)
	flag.IntVar(&flags.timeout, flagTimeout, defaultTimeoutSeconds, flagTimeoutDesc)
	flag.Parse()

	return flags
}

func handleHealthCheck(ctx context.Context, gatewayClient *client.Client) error {
	err := gatewayClient.HealthCheck(ctx)
	if err != nil {
		fmt.Printf("TTS gateway is not healthy: %v\n", err)

		return err
	}

	fmt.Println("TTS gateway is healthy")

	return nil
}

func handleListSpeakers(ctx context.Context, gatewayClient *client.Client) error {
	speakers, err := gatewayClient.Speakers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list speakers: %w", err)
	}

	for _, speaker := range speakers {
		fmt.Println(speaker)
	}

	return nil
}

func handleSynthesis(ctx context.Context, gatewayClient *client.Client, flags appFlags) error {
	audio, err := gatewayClient.TextToSpeech(ctx, flags.text, flags.speaker, flags.language)
	if err != nil {
		return fmt.Errorf("failed to synthesize text: %w", err)
	}

	err = os.WriteFile(flags.output, audio, wavFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	fmt.Printf("Generated: %s (%d bytes)\n", flags.output, len(audio))

	return nil
}
