package config

import "time"

// UI and Display Constants
const (
	ItemsPerPage = 7

	ErrorColor      = 0xFF0000
	SuccessColor    = 0x00FF00
	InfoColor       = 0x0099FF
	WarningColor    = 0xFFAA00
	BackgroundColor = 0x2B2D31
)

// Timeouts
const (
	DefaultQueryTimeout     = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	SlowCommandThreshold    = 2 * time.Second
	ShutdownTimeout         = 10 * time.Second
)

// Notification delivery
const (
	DMQueueSize   = 256
	DMSendTimeout = 5 * time.Second
)
