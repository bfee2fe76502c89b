package malloc

import "sync/atomic"

import "github.com/bnclabs/gobump/log"

var logok = int64(0)

// LogComponents enable logging. By default logging is disabled,
// if applications want log information for malloc components
// call this function with "self" or "all" or "malloc" or "bump" as
// argument.
func LogComponents(components ...string) {
	for _, comp := range components {
		switch comp {
		case "malloc", "bump", "self", "all":
			atomic.StoreInt64(&logok, 1)
		}
	}
}

func debugf(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Debugf(format, v...)
	}
}

func infof(format string, v ...interface{}) {
	if atomic.LoadInt64(&logok) > 0 {
		log.Infof(format, v...)
	}
}
