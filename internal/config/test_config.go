package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:          "http://127.0.0.1:0",
			Timeout:      5 * time.Second,
			UserAgent:    "rdash-test/1.0",
			RetryMax:     1,
			RetryWaitMin: 1 * time.Millisecond,
			RetryWaitMax: 5 * time.Millisecond,
		},
		Stream: StreamConfig{
			ReconnectMin:     5 * time.Millisecond,
			ReconnectMax:     20 * time.Millisecond,
			ResubscribeDelay: 10 * time.Millisecond,
		},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
		Log:   LogConfig{Level: "off"},
	}
}
