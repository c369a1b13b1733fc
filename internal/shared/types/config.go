package types

// ServerConf holds the [server] section.
type ServerConf struct {
	Host            string `ini:"host"`
	Port            int    `ini:"port"`
	AcceptTimeoutMs int    `ini:"accept_timeout_ms"` // how often the accept loop re-checks the running flag
	ReadTimeoutSec  int    `ini:"read_timeout_sec"`  // idle limit per connection
	DelayMinMs      int    `ini:"delay_min_ms"`      // simulated workload range
	DelayMaxMs      int    `ini:"delay_max_ms"`
}

// ClientConf holds the [client] section used by the simulated clients.
type ClientConf struct {
	Count          int    `ini:"count"`
	PauseMinMs     int    `ini:"pause_min_ms"`
	PauseMaxMs     int    `ini:"pause_max_ms"`
	DialTimeoutSec int    `ini:"dial_timeout_sec"`
	IOTimeoutSec   int    `ini:"io_timeout_sec"`
	Socks5         string `ini:"socks5"` // optional upstream proxy, host:port
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
	File  string `ini:"file"`
}

// Config is the whole pointsrv.ini file.
type Config struct {
	ServerConf `ini:"server"`
	ClientConf `ini:"client"`
	LogConf    `ini:"log"`
}
