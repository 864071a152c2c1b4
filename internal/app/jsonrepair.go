package app

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"toilanguoisaigon/internal/domain"
)

// maxRepairSteps bounds the backward scan so a pathological blob of braces
// can't spin forever.
const maxRepairSteps = 50

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)(?:```|$)")

// ExtractObjects pulls the most complete JSON array of objects out of raw
// model output. The generator frequently wraps its answer in a fenced code
// block and just as frequently runs out of output tokens mid-element, so
// each candidate block gets a direct parse first and then a bounded
// backward repair: truncate at the last '}' and close the array. Partial
// trailing elements are dropped whole, never emitted malformed.
//
// Returns domain.ErrExtraction when nothing in raw parses.
func ExtractObjects(raw string) ([]map[string]any, error) {
	blocks := extractBlocks(raw)

	var best []map[string]any
	found := false
	for _, block := range blocks {
		objs, ok := parseBlock(block)
		if !ok {
			continue
		}
		if !found || len(objs) > len(best) {
			best = objs
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %d candidate block(s)", domain.ErrExtraction, len(blocks))
	}
	return best, nil
}

// extractBlocks returns fenced ```json blocks, or the whole text as one
// candidate when there are none.
func extractBlocks(raw string) []string {
	ms := fencedJSON.FindAllStringSubmatch(raw, -1)
	if len(ms) == 0 {
		return []string{strings.TrimSpace(raw)}
	}
	blocks := make([]string, 0, len(ms))
	for _, m := range ms {
		blocks = append(blocks, strings.TrimSpace(m[1]))
	}
	return blocks
}

func parseBlock(block string) ([]map[string]any, bool) {
	if block == "" {
		return nil, false
	}
	if objs, ok := tryParse(block); ok {
		return objs, true
	}

	// Backward repair for truncated output: cut at the previous '}' and
	// close the array, retrying until something parses or we give up.
	pos := len(block)
	for i := 0; i < maxRepairSteps; i++ {
		pos = strings.LastIndex(block[:pos], "}")
		if pos <= 0 {
			break
		}
		if objs, ok := tryParse(block[:pos+1] + "\n]"); ok {
			return objs, true
		}
	}
	return nil, false
}

// tryParse accepts either an array of objects or a bare object, which
// parses as a single-element array.
func tryParse(s string) ([]map[string]any, bool) {
	var arr []map[string]any
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		return arr, true
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return []map[string]any{obj}, true
	}
	return nil, false
}
