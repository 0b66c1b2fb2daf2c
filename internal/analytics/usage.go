// Package analytics implements anonymous, opt-out usage telemetry: one
// event per CLI invocation, keyed by a UUID persisted under
// ~/.rattr/.env. Adapted from sourcecode-parser/analytics/usage.go,
// generalized from a fixed set of query-mode event constants to the
// event names rattr's own subcommands report.
package analytics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/posthog/posthog-go"
)

const (
	EventAnalyseFile    = "executed_analyse_command_file_mode"
	EventAnalyseProject = "executed_analyse_command_project_mode"
	EventAnalyseError   = "error_processing_analyse"
	EventVersionCommand = "executed_version_command"
)

var (
	// PublicKey is the PostHog project key. Left empty in this
	// distribution; ReportEvent is a silent no-op until it is set by a
	// build that embeds one, matching the teacher's own pattern of
	// shipping the telemetry plumbing without a baked-in key.
	PublicKey string

	enableMetrics bool
)

// Init sets whether ReportEvent actually sends events this run.
func Init(disableMetrics bool) {
	enableMetrics = !disableMetrics
}

func envFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".rattr", ".env"), nil
}

func createEnvFile() {
	envFile, err := envFilePath()
	if err != nil {
		fmt.Println("error getting user home directory:", err)
		return
	}
	if _, err := os.Stat(envFile); !os.IsNotExist(err) {
		return
	}
	if err := os.MkdirAll(filepath.Dir(envFile), os.ModePerm); err != nil {
		fmt.Println("error creating directory:", err)
		return
	}
	env := map[string]string{"uuid": uuid.New().String()}
	if err := godotenv.Write(env, envFile); err != nil {
		fmt.Println("error writing to .env file:", err)
	}
}

// LoadEnvFile ensures the on-disk UUID exists, then loads it into the
// process environment.
func LoadEnvFile() {
	createEnvFile()
	envFile, err := envFilePath()
	if err != nil {
		return
	}
	_ = godotenv.Load(envFile)
}

// ReportEvent fires a single anonymous event, identified only by the
// persisted UUID, if metrics are enabled and a PublicKey is configured.
func ReportEvent(event string) {
	if !enableMetrics || PublicKey == "" {
		return
	}
	client, err := posthog.NewWithConfig(PublicKey, posthog.Config{
		Endpoint: "https://us.i.posthog.com",
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer client.Close()

	if err := client.Enqueue(posthog.Capture{
		DistinctId: os.Getenv("uuid"),
		Event:      event,
	}); err != nil {
		fmt.Println(err)
	}
}
