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

package pb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is satisfied by every type in this package; it is the hand-rolled
// stand-in for proto.Message used by the encoder's Packer implementations.
type Message interface {
	Marshal() ([]byte, error)
}

// Int32, Int64, String and Bool mirror the proto.Int32/Int64/String/Bool
// helpers: they take the address of a copy so call sites can populate an
// optional scalar field inline.
func Int32(v int32) *int32    { return &v }
func Int64(v int64) *int64    { return &v }
func String(v string) *string { return &v }
func Bool(v bool) *bool       { return &v }

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)

	return protowire.AppendVarint(b, v)
}

func appendInt32Field(b []byte, num protowire.Number, v int32) []byte {
	return appendVarintField(b, num, uint64(uint32(v)))
}

func appendInt64Field(b []byte, num protowire.Number, v int64) []byte {
	return appendVarintField(b, num, uint64(v))
}

func appendSint64Field(b []byte, num protowire.Number, v int64) []byte {
	return appendVarintField(b, num, protowire.EncodeZigZag(v))
}

func appendBoolField(b []byte, num protowire.Number, v bool) []byte {
	var u uint64
	if v {
		u = 1
	}

	return appendVarintField(b, num, u)
}

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendString(b, v)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendBytes(b, v)
}

func appendMessageField(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)

	return protowire.AppendBytes(b, msg)
}

func appendPackedVarint(b []byte, num protowire.Number, values []uint64) []byte {
	if len(values) == 0 {
		return b
	}

	var payload []byte
	for _, v := range values {
		payload = protowire.AppendVarint(payload, v)
	}

	return appendBytesField(b, num, payload)
}

func appendPackedInt32(b []byte, num protowire.Number, values []int32) []byte {
	if len(values) == 0 {
		return b
	}

	vs := make([]uint64, len(values))
	for i, v := range values {
		vs[i] = uint64(uint32(v))
	}

	return appendPackedVarint(b, num, vs)
}

func appendPackedUint32(b []byte, num protowire.Number, values []uint32) []byte {
	if len(values) == 0 {
		return b
	}

	vs := make([]uint64, len(values))
	for i, v := range values {
		vs[i] = uint64(v)
	}

	return appendPackedVarint(b, num, vs)
}

func appendPackedInt64(b []byte, num protowire.Number, values []int64) []byte {
	if len(values) == 0 {
		return b
	}

	vs := make([]uint64, len(values))
	for i, v := range values {
		vs[i] = uint64(v)
	}

	return appendPackedVarint(b, num, vs)
}

func appendPackedSint64(b []byte, num protowire.Number, values []int64) []byte {
	if len(values) == 0 {
		return b
	}

	vs := make([]uint64, len(values))
	for i, v := range values {
		vs[i] = protowire.EncodeZigZag(v)
	}

	return appendPackedVarint(b, num, vs)
}

func appendPackedBool(b []byte, num protowire.Number, values []bool) []byte {
	if len(values) == 0 {
		return b
	}

	vs := make([]uint64, len(values))

	for i, v := range values {
		if v {
			vs[i] = 1
		}
	}

	return appendPackedVarint(b, num, vs)
}

func appendPackedSint32(b []byte, num protowire.Number, values []int32) []byte {
	if len(values) == 0 {
		return b
	}

	vs := make([]uint64, len(values))
	for i, v := range values {
		vs[i] = protowire.EncodeZigZag(int64(v))
	}

	return appendPackedVarint(b, num, vs)
}

func appendPackedEnum[T ~int32](b []byte, num protowire.Number, values []T) []byte {
	if len(values) == 0 {
		return b
	}

	vs := make([]uint64, len(values))
	for i, v := range values {
		vs[i] = uint64(uint32(v))
	}

	return appendPackedVarint(b, num, vs)
}

// consumeVarintSlice decodes a length-delimited run of concatenated varints,
// the wire form of a packed repeated field.
func consumeVarintSlice(b []byte) ([]uint64, error) {
	var values []uint64

	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, fmt.Errorf("pb: malformed packed varint: %w", protowire.ParseError(n))
		}

		values = append(values, v)
		b = b[n:]
	}

	return values, nil
}

// skipField advances past a field's value, used for forward-compatible
// unknown-field tolerance while unmarshalling.
func skipField(b []byte, typ protowire.Type) (int, error) {
	n := protowire.ConsumeFieldValue(0, typ, b)
	if n < 0 {
		return 0, fmt.Errorf("pb: malformed field: %w", protowire.ParseError(n))
	}

	return n, nil
}
