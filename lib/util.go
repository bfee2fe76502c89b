package lib

import "fmt"
import "unsafe"
import "encoding/json"

// Bytes return a byte-slice view of `ln` bytes starting at `ptr`. Useful
// when memory block is obtained outside golang runtime or from a custom
// allocator. Slice does not own the memory.
func Bytes(ptr unsafe.Pointer, ln int) []byte {
	if ptr == nil || ln <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), ln)
}

// Memset fill `ln` bytes starting at `ptr` with `b`.
func Memset(ptr unsafe.Pointer, b byte, ln int) {
	dst := Bytes(ptr, ln)
	for i := range dst {
		dst[i] = b
	}
}

// Prettystats uses json.MarshalIndent, if pretty is true, instead of
// json.Marshal. If Marshal return error Prettystats will panic.
func Prettystats(stats map[string]interface{}, pretty bool) string {
	if pretty {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			panic(err)
		}
		return string(data)
	}
	data, err := json.Marshal(stats)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
