package fixture

import "time"

// Config holds configuration for the fixture server.
type Config struct {
	// ConsoleAddr serves the console-emitting app.
	ConsoleAddr string

	// LoadingAddr serves the app with a loading indicator.
	LoadingAddr string

	// ReadyDelay is how long the loading app shows its indicator before the
	// server reports ready over the websocket.
	ReadyDelay time.Duration
}

// DefaultConfig returns a Config with the ports the verifiers expect.
func DefaultConfig() Config {
	return Config{
		ConsoleAddr: ":3000",
		LoadingAddr: ":3001",
		ReadyDelay:  1500 * time.Millisecond,
	}
}
