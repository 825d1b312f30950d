package internal

import (
	"github.com/mxhess/salvium-core/internal/argon2d"
)

// Argon2dCache generates the RandomX cache using proper Argon2d.
// This uses the custom Argon2d implementation in internal/argon2d which
// provides full data-dependent addressing as required by RandomX.
//
// RandomX parameters:
//   - Memory: 256 MB (262144 KB)
//   - Time: 3 passes
//   - Lanes: 1 (single-threaded)
//   - Output: the filled 256 MiB memory itself (262144 blocks of 1 KiB)
//
// The key is the Argon2d password; the salt is always the fixed
// argon2d.RandomXSalt.
func Argon2dCache(key []byte) []byte {
	return argon2d.Argon2dCache(key)
}
