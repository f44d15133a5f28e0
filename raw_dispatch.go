package headlessterm

import (
	"regexp"
	"strconv"
	"strings"
)

// go-ansicode's Handler interface has no dedicated methods for DECRQM mode
// queries, OSC 9;4 progress reports, or most CSI t window-manipulation
// forms (only the text-area/cell-size queries it already names, such as
// TextAreaSizeChars). Write scans incoming bytes for these three escape
// forms itself and calls the matching Terminal method directly, the same
// way it would be called by an embedder preprocessing raw bytes before
// handing them to the decoder.
var (
	decrqmPattern    = regexp.MustCompile(`\x1b\[(\??)([0-9]+)\$p`)
	progressPattern  = regexp.MustCompile(`\x1b\]9;4;([0-9]+)(?:;([0-9]+))?(?:\x1b\\|\x07)`)
	windowCmdPattern = regexp.MustCompile(`\x1b\[([0-9;]*)t`)
)

// windowCmdHandledByDecoder lists the CSI t Ps values go-ansicode already
// dispatches through named Handler methods (CellSizePixels,
// TextAreaSizePixels, TextAreaSizeChars); scanRawDispatchSequences skips
// these so WindowCommand isn't invoked twice for the same query.
var windowCmdHandledByDecoder = map[int]bool{
	14: true,
	16: true,
	18: true,
}

// scanRawDispatchSequences finds DECRQM queries, OSC 9;4 progress reports,
// and CSI t window commands not already covered by go-ansicode's dispatch,
// and calls their Terminal methods. It runs ahead of t.decoder.Write so
// these forms are reachable through Write/feed like every other sequence.
func (t *Terminal) scanRawDispatchSequences(data []byte) {
	for _, m := range decrqmPattern.FindAllSubmatch(data, -1) {
		ps, err := strconv.Atoi(string(m[2]))
		if err != nil {
			continue
		}
		if len(m[1]) > 0 {
			t.ReportDecPrivateMode(ps)
		} else {
			t.ReportAnsiMode(ps)
		}
	}

	for _, m := range progressPattern.FindAllSubmatch(data, -1) {
		state := progressStateNames[string(m[1])]
		percent := 0
		if len(m[2]) > 0 {
			percent, _ = strconv.Atoi(string(m[2]))
		}
		t.ReportProgress(state, percent)
	}

	for _, m := range windowCmdPattern.FindAllSubmatch(data, -1) {
		params := parseWindowCmdParams(string(m[1]))
		if len(params) == 0 || windowCmdHandledByDecoder[params[0]] {
			continue
		}
		if reply := t.WindowCommand(params); len(reply) > 0 {
			t.writeResponse(reply)
		}
	}
}

// progressStateNames maps the OSC 9;4 "st" sub-parameter to the state name
// ReportProgress/ProgressProvider expect (normal, error, indeterminate,
// paused), mirroring ConEmu's taskbar progress convention.
var progressStateNames = map[string]string{
	"0": "none",
	"1": "normal",
	"2": "error",
	"3": "indeterminate",
	"4": "paused",
}

func parseWindowCmdParams(raw string) []int {
	if raw == "" {
		return nil
	}
	fields := strings.Split(raw, ";")
	params := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		params = append(params, n)
	}
	return params
}
