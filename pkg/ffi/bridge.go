// Package ffi provides CGO bindings to the Rust Sapling proving library.
//
// Groth16 proving over the Sapling circuits depends on the circuit
// parameters and the battle-tested bellman prover; reimplementing either
// in Go would be slow and risky, so this package bridges to the same Rust
// code the reference implementations use.
//
// Build requirements:
//   - Rust toolchain (cargo, rustc)
//   - The Rust library must be built before using this package
//
// Build the Rust library:
//
//	cd pkg/ffi/rust && cargo build --release
//
// The CGO directives below link against the compiled Rust library.
package ffi

/*
#cgo LDFLAGS: -L${SRCDIR}/rust/target/release -lztron_shield_ffi
#cgo darwin LDFLAGS: -framework Security -framework Foundation
#cgo linux LDFLAGS: -ldl -lm

#include <stdlib.h>
#include <stdint.h>

// FFI error codes
typedef enum {
    FFI_OK = 0,
    FFI_ERROR_NULL_POINTER = 1,
    FFI_ERROR_PARAMS_NOT_LOADED = 2,
    FFI_ERROR_PARAMS_INVALID = 3,
    FFI_ERROR_PROVING_FAILED = 4,
    FFI_ERROR_BINDING_SIG_FAILED = 5,
    FFI_ERROR_INVALID_WITNESS = 6,
} FFIErrorCode;

char *ffi_last_error_message(void);
void ffi_free_string(char *s);

FFIErrorCode ffi_sapling_init_params(
    const char *spend_path,
    const char *output_path
);

uintptr_t ffi_sapling_ctx_new(void);
void ffi_sapling_ctx_free(uintptr_t ctx);

FFIErrorCode ffi_sapling_spend_proof(
    uintptr_t ctx,
    const uint8_t ak[32],
    const uint8_t nsk[32],
    const uint8_t diversifier[11],
    const uint8_t rcm[32],
    const uint8_t alpha[32],
    uint64_t value,
    const uint8_t anchor[32],
    const uint8_t *path,
    size_t path_len,
    uint8_t proof_out[192],
    uint8_t cv_out[32],
    uint8_t rk_out[32]
);

FFIErrorCode ffi_sapling_output_proof(
    uintptr_t ctx,
    const uint8_t esk[32],
    const uint8_t diversifier[11],
    const uint8_t pk_d[32],
    const uint8_t rcm[32],
    uint64_t value,
    uint8_t proof_out[192],
    uint8_t cv_out[32]
);

FFIErrorCode ffi_sapling_binding_sig(
    uintptr_t ctx,
    int64_t value_balance,
    const uint8_t sighash[32],
    uint8_t sig_out[64]
);
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// Error represents an error returned from the Rust FFI.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ffi error %d: %s", e.Code, e.Message)
}

func lastError(code C.FFIErrorCode) error {
	if code == C.FFI_OK {
		return nil
	}

	cMsg := C.ffi_last_error_message()
	if cMsg == nil {
		return &Error{Code: int(code), Message: "unknown error (no message available)"}
	}
	defer C.ffi_free_string(cMsg)

	return &Error{Code: int(code), Message: C.GoString(cMsg)}
}

// InitParams loads the Groth16 spend and output parameters from disk into
// the Rust library's process-wide state. The Go side serializes calls
// through prover.LoadParameters.
func InitParams(spendPath, outputPath string) error {
	cSpend := C.CString(spendPath)
	defer C.free(unsafe.Pointer(cSpend))
	cOutput := C.CString(outputPath)
	defer C.free(unsafe.Pointer(cOutput))

	return lastError(C.ffi_sapling_init_params(cSpend, cOutput))
}

// ContextNew allocates a Rust-side proving context. The context tracks the
// commitment randomness needed for the binding signature.
func ContextNew() uintptr {
	return uintptr(C.ffi_sapling_ctx_new())
}

// ContextFree releases a proving context.
func ContextFree(ctx uintptr) {
	C.ffi_sapling_ctx_free(C.uintptr_t(ctx))
}

// SpendProof generates a Groth16 spend proof, returning the proof bytes,
// the value commitment, and the randomized verification key.
func SpendProof(
	ctx uintptr,
	ak, nsk [32]byte,
	diversifier [11]byte,
	rcm, alpha [32]byte,
	value uint64,
	anchor [32]byte,
	path []byte,
) (proof [192]byte, cv [32]byte, rk [32]byte, err error) {
	if len(path) == 0 {
		err = &Error{Code: int(C.FFI_ERROR_INVALID_WITNESS), Message: "empty merkle path"}
		return
	}

	code := C.ffi_sapling_spend_proof(
		C.uintptr_t(ctx),
		(*C.uint8_t)(unsafe.Pointer(&ak[0])),
		(*C.uint8_t)(unsafe.Pointer(&nsk[0])),
		(*C.uint8_t)(unsafe.Pointer(&diversifier[0])),
		(*C.uint8_t)(unsafe.Pointer(&rcm[0])),
		(*C.uint8_t)(unsafe.Pointer(&alpha[0])),
		C.uint64_t(value),
		(*C.uint8_t)(unsafe.Pointer(&anchor[0])),
		(*C.uint8_t)(unsafe.Pointer(&path[0])),
		C.size_t(len(path)),
		(*C.uint8_t)(unsafe.Pointer(&proof[0])),
		(*C.uint8_t)(unsafe.Pointer(&cv[0])),
		(*C.uint8_t)(unsafe.Pointer(&rk[0])),
	)
	err = lastError(code)
	return
}

// OutputProof generates a Groth16 output proof, returning the proof bytes
// and the value commitment.
func OutputProof(
	ctx uintptr,
	esk [32]byte,
	diversifier [11]byte,
	pkd, rcm [32]byte,
	value uint64,
) (proof [192]byte, cv [32]byte, err error) {
	code := C.ffi_sapling_output_proof(
		C.uintptr_t(ctx),
		(*C.uint8_t)(unsafe.Pointer(&esk[0])),
		(*C.uint8_t)(unsafe.Pointer(&diversifier[0])),
		(*C.uint8_t)(unsafe.Pointer(&pkd[0])),
		(*C.uint8_t)(unsafe.Pointer(&rcm[0])),
		C.uint64_t(value),
		(*C.uint8_t)(unsafe.Pointer(&proof[0])),
		(*C.uint8_t)(unsafe.Pointer(&cv[0])),
	)
	err = lastError(code)
	return
}

// BindingSig signs the sighash with the binding signature key accumulated
// in the proving context.
func BindingSig(ctx uintptr, valueBalance int64, sighash [32]byte) (sig [64]byte, err error) {
	code := C.ffi_sapling_binding_sig(
		C.uintptr_t(ctx),
		C.int64_t(valueBalance),
		(*C.uint8_t)(unsafe.Pointer(&sighash[0])),
		(*C.uint8_t)(unsafe.Pointer(&sig[0])),
	)
	err = lastError(code)
	return
}
