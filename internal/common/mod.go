package common

import "time"

const (
	REQUEST_TIMEOUT_SECS = 30 * time.Second

	BRAND_NAME = "Kinfash"
)
