package fileloader

import "github.com/cespare/xxhash/v2"

// Hasher computes the content fingerprint used by [Loader.ContentHash].
var Hasher = xxhash.Sum64
