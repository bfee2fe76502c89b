package main

import "os"
import "fmt"
import "flag"

import "github.com/bnclabs/gobump/api"
import "github.com/bnclabs/gobump/lib"
import "github.com/bnclabs/gobump/log"
import "github.com/bnclabs/gobump/malloc"
import sigar "github.com/cloudfoundry/gosigar"
import humanize "github.com/dustin/go-humanize"

var options struct {
	capacity int64
	buffer   string
	image    string
	dump     string
	routines int
	repeat   int
	sizes    []int64
	align    int64
	log      string
}

func argParse() {
	var sizes string

	flag.Int64Var(&options.capacity, "capacity", malloc.Defaultcapacity,
		"size of allocator's buffer in bytes")
	flag.StringVar(&options.buffer, "buffer", "heap",
		"heap or offheap buffer")
	flag.StringVar(&options.image, "image", "",
		"pre-fill buffer with file content")
	flag.StringVar(&options.dump, "dump", "",
		"dump consumed portion of the buffer into file, after the load")
	flag.IntVar(&options.routines, "routines", 8,
		"number of concurrent routines allocating from the buffer")
	flag.IntVar(&options.repeat, "repeat", 1000,
		"number of allocations per routine")
	flag.StringVar(&sizes, "sizes", "8,16,32,64,128,256",
		"comma separated block sizes, 8x4 repeats size 8 four times")
	flag.Int64Var(&options.align, "align", api.Wordalign,
		"alignment for every allocation, power of 2")
	flag.StringVar(&options.log, "log", "",
		"enable malloc logging at level, ignore|info|debug|trace")
	flag.Parse()

	var err error
	if options.sizes, err = parsesizes(sizes); err != nil {
		fmt.Printf("invalid -sizes: %v\n", err)
		os.Exit(1)
	}
	if options.align <= 0 || !lib.Ispowerof2(uintptr(options.align)) {
		fmt.Printf("invalid -align %v, must be a power of 2\n", options.align)
		os.Exit(1)
	}
}

func main() {
	argParse()

	setts := newsettings()
	if setts.Bool("log.enabled") {
		log.SetLogger(nil, setts.Section("log."))
		malloc.LogComponents("all")
	}

	bump, err := malloc.NewBumpFrom(mallocsettings(setts))
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	rep := runload(bump, options.routines, options.repeat, options.sizes, options.align)
	printreport(bump, rep)
	bump.Logstats()
	if options.dump != "" {
		if err := bump.Dumpimage(options.dump); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("dumped %v into %q\n", humanize.Bytes(uint64(bump.Used())), options.dump)
	}
	if rep.overlaps > 0 || rep.corrupted > 0 {
		os.Exit(2)
	}
}

func printreport(bump *malloc.Bump, rep *report) {
	fmsg := "allocated %v blocks, %v failed, took %v\n"
	fmt.Printf(fmsg, rep.success, rep.failure, rep.elapsed)
	fmsg = "overlaps:%v corrupted:%v\n"
	fmt.Printf(fmsg, rep.overlaps, rep.corrupted)
	fmt.Printf("sizes   %v\n", rep.sizes.Logstring())
	fmt.Printf("latency %v\n", rep.latency.Logstring())

	capacity, _, alloc, overhead := bump.Info()
	fmsg = "bump{capacity:%v alloc:%v available:%v overhead:%v}\n"
	fmt.Printf(
		fmsg, humanize.Bytes(uint64(capacity)), humanize.Bytes(uint64(alloc)),
		humanize.Bytes(uint64(bump.Available())), humanize.Bytes(uint64(overhead)))
	fmt.Printf("%v\n", lib.Prettystats(bump.Stats(), true))

	mem := sigar.Mem{}
	if err := mem.Get(); err == nil {
		fmsg = "sysmem{total:%v used:%v free:%v}\n"
		fmt.Printf(
			fmsg, humanize.Bytes(mem.Total), humanize.Bytes(mem.Used),
			humanize.Bytes(mem.ActualFree))
	}
}
