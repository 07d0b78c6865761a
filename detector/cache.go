/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package detector

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"dirpx.dev/capx/apis"
)

type cacheKey struct {
	t        apis.TypeIdentifier
	required apis.CapabilitySet
}

type diagnostic struct {
	subject string
	msg     string
	ignored bool
}

type cacheEntry struct {
	bundle apis.Bundle
	err    error
	diags  []diagnostic
}

// recordingSink captures diagnostics so they can be replayed on cache hits.
type recordingSink struct {
	next  apis.DiagnosticSink
	diags []diagnostic
}

func (r *recordingSink) Ignore(subject, reason string) {
	r.diags = append(r.diags, diagnostic{subject: subject, msg: reason, ignored: true})
	r.next.Ignore(subject, reason)
}

func (r *recordingSink) Note(msg string) {
	r.diags = append(r.diags, diagnostic{msg: msg})
	r.next.Note(msg)
}

// Cached wraps d with a size-bounded LRU keyed by (type, required
// capabilities). Diagnostics of the original detection are replayed on every
// hit, so trails look the same with and without the cache. A size <= 0
// returns d unchanged.
//
// Bundles are cloned when stored and on every hit, so callers may modify
// what they receive. The cache is safe for concurrent use. It assumes d is deterministic, which
// holds for detectors built by New over reflection strategies.
func Cached(d apis.Detector, size int) (apis.Detector, error) {
	if size <= 0 {
		return d, nil
	}
	c, err := lru.New[cacheKey, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("capx(detector): cache: %w", err)
	}
	return &cached{next: d, cache: c}, nil
}

type cached struct {
	next  apis.Detector
	cache *lru.Cache[cacheKey, cacheEntry]
}

var _ apis.Detector = (*cached)(nil)

func (c *cached) Detect(t apis.TypeIdentifier, required apis.CapabilitySet, sink apis.DiagnosticSink) (apis.Bundle, error) {
	if sink == nil {
		sink = apis.NopSink{}
	}
	key := cacheKey{t: t, required: required}
	if e, ok := c.cache.Get(key); ok {
		for _, d := range e.diags {
			if d.ignored {
				sink.Ignore(d.subject, d.msg)
			} else {
				sink.Note(d.msg)
			}
		}
		return e.bundle.Clone(), e.err
	}
	rec := &recordingSink{next: sink}
	b, err := c.next.Detect(t, required, rec)
	c.cache.Add(key, cacheEntry{bundle: b.Clone(), err: err, diags: rec.diags})
	return b, err
}

// Len reports the number of cached results. It is exposed for tests and
// diagnostics through the Sizer interface.
func (c *cached) Len() int { return c.cache.Len() }

// Sizer is implemented by cached detectors.
type Sizer interface {
	Len() int
}
