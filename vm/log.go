package vm

import (
	"github.com/dustin/go-humanize"
	"github.com/tliron/commonlog"
)

var (
	gcLog   = commonlog.GetLogger("mcurt.gc")
	heapLog = commonlog.GetLogger("mcurt.heap")
)

func formatWords(words int) string {
	return humanize.IBytes(uint64(words) * 4)
}
