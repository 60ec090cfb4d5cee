package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"unsafe"
)

// commitframe_open creates an instance and returns its handle, or -1 when
// options cannot be parsed. options is a YAML or JSON document of source
// settings and may be NULL.
//
//export commitframe_open
func commitframe_open(options *C.char) C.int {
	var raw string
	if options != nil {
		raw = C.GoString(options)
	}
	handle, err := registry.open(raw)
	if err != nil {
		return -1
	}
	return C.int(handle)
}

//export commitframe_close
func commitframe_close(handle C.int) {
	registry.close(int(handle))
}

// commitframe_execute runs one statement and returns a JSON response that
// the caller releases with commitframe_free.
//
//export commitframe_execute
func commitframe_execute(handle C.int, query *C.char) *C.char {
	return C.CString(string(registry.execute(int(handle), C.GoString(query))))
}

//export commitframe_free
func commitframe_free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func main() {}
