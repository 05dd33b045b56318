package main

import "time"

type Config struct {
	Host                string        `env:"HOST,default=localhost"`
	Port                int           `env:"PORT,default=8080"`
	BroadcastBufferSize int           `env:"BROADCAST_BUFFER_SIZE,default=256"`
	RestartInterval     time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	LogLevel            string        `env:"LOG_LEVEL,default=INFO"`
}
