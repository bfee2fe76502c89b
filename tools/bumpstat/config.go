package main

import "github.com/bnclabs/gobump/lib"
import "github.com/bnclabs/gobump/log"
import "github.com/bnclabs/gobump/malloc"

// newsettings gather logger and allocator settings from command line
// options, allocator settings are prefixed with "malloc.".
func newsettings() lib.Settings {
	setts := log.Defaultsettings()
	setts.Mixin(malloc.Defaultsettings().AddPrefix("malloc."))
	setts.Mixin(lib.Settings{
		"log.enabled":     options.log != "",
		"malloc.name":     "bumpstat",
		"malloc.capacity": options.capacity,
		"malloc.buffer":   options.buffer,
		"malloc.image":    options.image,
	})
	if options.log != "" {
		setts["log.level"] = options.log
	}
	return setts
}

func mallocsettings(setts lib.Settings) lib.Settings {
	return setts.Section("malloc.").Trim("malloc.")
}
