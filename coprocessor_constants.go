package main

// Starlet IPC Registers (0xCD000000-0xCD000010)
const (
	STARLET_IPC_BASE = 0xCD000000
	STARLET_IPC_END  = 0xCD00FFFF

	STARLET_CMD         = STARLET_IPC_BASE + 0x00 // Command register (serviced on next poll)
	STARLET_RESPONSE    = STARLET_IPC_BASE + 0x04 // Result of last command
	STARLET_PARAM_ADDR  = STARLET_IPC_BASE + 0x08 // Guest address of parameter block
	STARLET_RESULT_ADDR = STARLET_IPC_BASE + 0x0C // Guest address for command output
	STARLET_STATUS      = STARLET_IPC_BASE + 0x10 // 1 = last command completed

	// Register block end; the rest of the 64KB window is scratch RAM
	STARLET_REG_END = STARLET_IPC_BASE + 0x1F
)

// Starlet commands (written to STARLET_CMD)
const (
	STARLET_CMD_INIT        = 1 // Bring up the I/O processor
	STARLET_CMD_RESET       = 2 // Reset it
	STARLET_CMD_READ        = 3 // DMA copy, params: src, dst, size
	STARLET_CMD_WRITE       = 4 // DMA copy, params: src, dst, size
	STARLET_CMD_AUDIO_STAGE = 5 // Stage PCM, params: addr, size
)

// Starlet responses (read from STARLET_RESPONSE)
const (
	STARLET_RESP_OK          = 0x00
	STARLET_RESP_FAIL        = 0x01
	STARLET_RESP_UNKNOWN_CMD = 0xFF
)

// Starlet status values (read from STARLET_STATUS)
const (
	STARLET_STATUS_IDLE = 0
	STARLET_STATUS_DONE = 1
)
