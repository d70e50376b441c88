// Command libposeidongl builds the Goldilocks Poseidon hash as a C shared
// library:
//
//	go build -buildmode=c-shared -o libposeidongl.so ./cmd/libposeidongl
//
// Every PoseidonBuffer returned by the library is allocated with malloc and
// must be released exactly once with poseidon_goldilocks_free. Input buffers
// are borrowed for the duration of the call; data must point to len readable
// words or be NULL.
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	uint64_t *data;
	size_t len;
} PoseidonBuffer;
*/
import "C"

import (
	"unsafe"

	"github.com/vocdoni/poseidongl/ffi"
)

//export poseidon_goldilocks_hash
func poseidon_goldilocks_hash(in C.PoseidonBuffer) C.PoseidonBuffer {
	return toC(ffi.HashRaw(fromC(in)))
}

// poseidon_goldilocks_hash_with_capacity expects exactly 12 words, 8 inputs
// followed by 4 capacity words. Any other length yields an empty buffer.
//
//export poseidon_goldilocks_hash_with_capacity
func poseidon_goldilocks_hash_with_capacity(in C.PoseidonBuffer) C.PoseidonBuffer {
	return toC(ffi.HashWithCapacityRaw(fromC(in)))
}

//export poseidon_goldilocks_free
func poseidon_goldilocks_free(buf C.PoseidonBuffer) {
	if buf.data == nil {
		return
	}
	C.free(unsafe.Pointer(buf.data))
}

// fromC views a caller buffer as a Go slice without copying. The result must
// not outlive the call.
func fromC(buf C.PoseidonBuffer) ffi.Buffer {
	if buf.data == nil || buf.len == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(buf.data)), int(buf.len))
}

// toC copies out into malloc'd memory owned by the caller.
func toC(out ffi.Buffer) C.PoseidonBuffer {
	if len(out) == 0 {
		return C.PoseidonBuffer{}
	}
	size := C.size_t(len(out)) * C.size_t(unsafe.Sizeof(uint64(0)))
	ptr := C.malloc(size)
	copy(unsafe.Slice((*uint64)(ptr), len(out)), out)
	return C.PoseidonBuffer{
		data: (*C.uint64_t)(ptr),
		len:  C.size_t(len(out)),
	}
}

func main() {}
