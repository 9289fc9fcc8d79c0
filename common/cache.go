// Copyright 2021-2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/zeebo/blake3"
)

const defaultCacheSize = 128

var (
	cache   *lru.Cache
	cacheMu sync.Mutex
)

// SetupCache initializes the process-local LRU cache. The number of entries is
// read from cache.local_size.
func SetupCache() error {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	size := viper.GetInt("cache.local_size")
	if size <= 0 {
		size = defaultCacheSize
	}

	c, err := lru.New(size)
	if err != nil {
		log.Error().Err(err).Int("Size", size).Msg("could not create LRU cache")
		return err
	}

	cache = c
	return nil
}

func getCache() *lru.Cache {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cache == nil {
		// unconfigured callers (tests, library use) get a default sized cache
		cache, _ = lru.New(defaultCacheSize)
	}
	return cache
}

// CacheKey hashes parts into a stable cache key
func CacheKey(parts ...string) string {
	h := blake3.New()
	// the separator cannot appear in any part so ("ab", "c") != ("a", "bc")
	_, _ = h.Write([]byte(strings.Join(parts, "\x00")))
	return string(h.Sum(nil))
}

// CacheSet stores an lz4 compressed copy of bytes under key
func CacheSet(key string, bytes []byte) error {
	b2, err := compress(bytes)
	if err != nil {
		return err
	}
	getCache().Add(key, b2)
	return nil
}

// CacheGet returns the decompressed value stored under key
func CacheGet(key string) ([]byte, bool) {
	v, ok := getCache().Get(key)
	if !ok {
		return nil, false
	}

	val, err := decompress(v.([]byte))
	if err != nil {
		log.Warn().Err(err).Msg("could not decompress cached value; evicting")
		getCache().Remove(key)
		return nil, false
	}

	return val, true
}

// CachePurge removes every entry from the cache
func CachePurge() {
	getCache().Purge()
}
