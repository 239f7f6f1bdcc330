package config

// EventsConfig controls publication of record events to RabbitMQ and the
// optional in-process consumer that writes them to an activity log.  An empty
// URL disables both.
type EventsConfig struct {
	URL             string
	Queue           string
	ConsumerEnabled bool
	ActivityLogPath string
}

// LoadEventsConfig reads RABBITMQ_URL (or AMQP_URL) and the consumer settings.
func LoadEventsConfig() EventsConfig {
	url := getenv("RABBITMQ_URL", "")
	if url == "" {
		url = getenv("AMQP_URL", "")
	}
	return EventsConfig{
		URL:             url,
		Queue:           getenv("EVENTS_QUEUE", "record.events"),
		ConsumerEnabled: envBool("EVENTS_CONSUMER", false),
		ActivityLogPath: getenv("ACTIVITY_LOG_PATH", "logs/activity.log"),
	}
}

// Enabled reports whether a broker URL was configured.
func (c EventsConfig) Enabled() bool { return c.URL != "" }
