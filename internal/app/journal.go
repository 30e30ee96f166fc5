package app

import (
	"fmt"
	"strings"
	"time"

	"gob00/internal/b00"
)

// formatRecord renders one journal line:
//
//	date,time,label,house,channel,payload,values,bits,repeats
func formatRecord(cw b00.Codeword, repeats uint8, now time.Time) string {
	return fmt.Sprintf("%s,%s,%s,%d,%d,0x%08X,%s,%s,%d",
		now.Format("2006/01/02"), now.Format("15:04:05.000"),
		cw.Payload.Type, cw.House&0x3, cw.Channel&0x7,
		cw.Payload.Value, strings.Join(cw.Payload.Values(), " "),
		cw.Bits(), repeats)
}
