// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package osmpbf

import "runtime"

// DefaultNCpu provides the default number of CPUs used for parallel
// decoding, leaving one core free for the caller's own work.
func DefaultNCpu() uint16 {
	cpus := uint16(runtime.GOMAXPROCS(-1))

	return max(cpus-1, 1)
}

// readerOptions provides optional configuration parameters for Reader
// construction.
type readerOptions struct {
	nCPU uint16 // the number of CPUs to use for parallel decoding
}

// ReaderOption configures how we set up a Reader.
type ReaderOption func(*readerOptions)

// WithNCpus lets you set the number of CPUs to use for parallel decoding.
func WithNCpus(n uint16) ReaderOption {
	return func(o *readerOptions) {
		o.nCPU = n
	}
}

var defaultReaderConfig = readerOptions{
	nCPU: DefaultNCpu(),
}
