package nwire

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	debug         uint32
	debugOutput   string
	debugOutputMu sync.Mutex
)

var debugfHook func(string, ...any)

func debugEnabled() bool {
	return atomic.LoadUint32(&debug) == 1
}

func debugf(format string, stuff ...any) {
	if !debugEnabled() {
		return
	}

	debugOutputMu.Lock()
	if debugfHook != nil {
		debugfHook(format, stuff...)
	} else {
		debugOutput += fmt.Sprintf(format+"\n", stuff...)
	}
	debugOutputMu.Unlock()
}

// DetailedError transforms errors into strings.  Errors returned by
// the Container nest several levels deep; DetailedError puts each level
// of the chain on its own line, indented under the level that wraps it,
// so that the requested key, the failing parameter and the root cause can
// be read top to bottom.
func DetailedError(err error) string {
	msgs := ChainMessages(err)
	for i, msg := range msgs {
		msgs[i] = strings.Repeat("  ", i) + msg
	}
	return strings.Join(msgs, "\n")
}

// ChainMessages returns the message of each level of the error chain
// with the part contributed by the wrapped error removed.
func ChainMessages(err error) []string {
	chain := Chain(err)
	msgs := make([]string, 0, len(chain))
	for i, e := range chain {
		msg := e.Error()
		if i+1 < len(chain) {
			next := chain[i+1].Error()
			// pkg/errors adds a stack layer that repeats its message
			if msg == next {
				continue
			}
			msg = strings.TrimSuffix(msg, ": "+next)
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// Describe lists the keys of a definition map with the kind of each
// definition, sorted by key.  It is meant for debugging output.
func Describe(definitions map[string]Definition) string {
	keys := make([]string, 0, len(definitions))
	for k := range definitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", k, definitions[k].Kind(), definitions[k])
	}
	return b.String()
}
