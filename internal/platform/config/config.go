package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	// ReviewWindowDays is the default number of days reviewers get.
	ReviewWindowDays int
	// WorkloadCeiling is the registry's hard per-reviewer workload cap.
	WorkloadCeiling int
	// AssignmentWorkloadCost is the workload units one assignment adds.
	AssignmentWorkloadCost int
	// ApprovalQuorum is the review count approval requires; zero means every
	// assigned reviewer.
	ApprovalQuorum int
	// ApprovalThreshold is the most conservative consolidated recommendation
	// that still permits approval.
	ApprovalThreshold string

	EnableOutboxRelay   bool
	EnableDeadlineSweep bool
	EnableCalendarFeed  bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "vellum"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	threshold := strings.TrimSpace(strings.ToLower(os.Getenv("APPROVAL_THRESHOLD")))
	if threshold == "" {
		threshold = "minor_revision"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		ReviewWindowDays:       envInt("REVIEW_WINDOW_DAYS", 7),
		WorkloadCeiling:        envInt("WORKLOAD_CEILING", 100),
		AssignmentWorkloadCost: envInt("ASSIGNMENT_WORKLOAD_COST", 10),
		ApprovalQuorum:         envInt("APPROVAL_QUORUM", 0),
		ApprovalThreshold:      threshold,

		EnableOutboxRelay:   envBool("ENABLE_OUTBOX_RELAY", true),
		EnableDeadlineSweep: envBool("ENABLE_DEADLINE_SWEEP", true),
		EnableCalendarFeed:  envBool("ENABLE_CALENDAR_FEED", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
