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

// Package pb holds the wire-level message types for the fileformat.proto and
// osmformat.proto schemas used by the OpenStreetMap PBF format. The types are
// maintained by hand against google.golang.org/protobuf/encoding/protowire
// rather than generated by protoc, so each message carries its own Marshal
// method and nil-safe Get accessors in place of protoc-gen-go's reflection
// machinery.
package pb
