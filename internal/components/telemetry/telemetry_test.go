package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedRecorder(t *testing.T) {
	rec := &Recorder{}
	tel := NewScopedAPI("batch", NewScopedAPI("xwordinfo", rec))

	tel.ReportBroken("client.finder", "ERA")
	tel.ReportWarning("worklist.load")
	tel.ReportCount("driver.recorded", 3)
	tel.ReportDebug("finder.locate", "QQQ")

	broken := rec.Find(REPORT_BROKEN, "client.finder")
	require.Len(t, broken, 1)
	require.Equal(t, "xwordinfo: batch: client.finder", broken[0].Id)
	require.Equal(t, []any{"ERA"}, broken[0].Params)

	require.Len(t, rec.Find(REPORT_WARNING, "worklist.load"), 1)

	counts := rec.Find(REPORT_COUNT, "driver.recorded")
	require.Len(t, counts, 1)
	require.Equal(t, int64(3), counts[0].Count)

	debug := rec.Find(REPORT_DEBUG, "finder.locate")
	require.Len(t, debug, 1)
	require.Equal(t, "xwordinfo: batch: finder.locate", debug[0].Id)

	require.Empty(t, rec.Find(REPORT_BROKEN, "worklist.load"))
}
