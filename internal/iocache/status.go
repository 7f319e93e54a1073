package iocache

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/churnchart/schema"
)

// PrintEventStatus prints event store status information.
func PrintEventStatus(w io.Writer, status schema.EventStoreStatus) {
	_, _ = fmt.Fprintf(w, "Event Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Events: %s\n", humanize.Comma(int64(status.TotalEvents)))
	if status.TotalEvents > 0 {
		_, _ = fmt.Fprintf(w, "Oldest Event: %s\n", status.OldestEventTime.Format("2006-01-02 15:04:05"))
		_, _ = fmt.Fprintf(w, "Newest Event: %s\n", status.NewestEventTime.Format("2006-01-02 15:04:05"))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %s\n", humanize.Bytes(uint64(max(status.TableSizeBytes, 0))))
}
